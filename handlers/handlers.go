// Package handlers exposes the story pipeline over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"colorstory/apperr"
	"colorstory/middleware"
	"colorstory/models"
	"colorstory/pipeline"
	"colorstory/storage"
)

const maxBodyBytes = 1 << 20

// StoryService is the part of pipeline.Service the HTTP surface calls.
type StoryService interface {
	GenerateStory(ctx context.Context, caller pipeline.Caller, in pipeline.StoryInput) (*pipeline.GenerateResult, error)
	GenerateVariant(ctx context.Context, caller pipeline.Caller, in pipeline.VariantInput) (*pipeline.VariantResult, error)
	RetryStep(ctx context.Context, caller pipeline.Caller, in pipeline.RetryInput) (*pipeline.RetryResult, error)
	GetStory(ctx context.Context, caller pipeline.Caller, id string) (*models.Story, error)
	ListStories(ctx context.Context, caller pipeline.Caller, limit, offset int) (*pipeline.StoryPage, error)
}

type Handler struct {
	stories StoryService
	assets  storage.Source
	log     *zap.Logger
}

func New(stories StoryService, assets storage.Source, log *zap.Logger) *Handler {
	return &Handler{stories: stories, assets: assets, log: log.With(zap.String("component", "http"))}
}

// Routes registers every endpoint on mux behind the shared middleware.
func (h *Handler) Routes(mux *http.ServeMux, allowedOrigins []string) {
	wrap := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.Chain(fn,
			middleware.RequestID,
			middleware.CORS(allowedOrigins),
			middleware.Identity,
			middleware.Logging(h.log),
		)
	}

	mux.HandleFunc("/stories", wrap(h.StoriesHandler))
	mux.HandleFunc("/stories/variant", wrap(h.VariantHandler))
	mux.HandleFunc("/stories/retry", wrap(h.RetryHandler))
	mux.HandleFunc("/stories/", wrap(h.StoryDetailRESTHandler))
	mux.HandleFunc(storage.AssetPrefix, wrap(storage.Handler(h.assets, h.log)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func caller(r *http.Request) pipeline.Caller {
	return pipeline.Caller{UID: middleware.UserID(r.Context())}
}

// pipelineContext detaches a run from the client connection. A started run
// continues to completion or failure even if the client goes away.
func pipelineContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.RequestIDFrom(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: err.Error()}})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// decodeBody reads a single JSON object, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.InvalidArgument, "request body is required")
		}
		return apperr.Wrap(apperr.InvalidArgument, err, "invalid request body")
	}
	if dec.More() {
		return apperr.New(apperr.InvalidArgument, "invalid request body: unexpected data after JSON object")
	}
	return nil
}
