package handlers

import (
	"net/http"

	"colorstory/pipeline"
)

// StoriesHandler serves POST /stories (fresh generation) and GET /stories
// (the caller's feed).
func (h *Handler) StoriesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.generate(w, r)
	case http.MethodGet:
		h.FeedHandler(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.StoryInput
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.stories.GenerateStory(pipelineContext(r), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// VariantHandler serves POST /stories/variant.
func (h *Handler) VariantHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req pipeline.VariantInput
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.stories.GenerateVariant(pipelineContext(r), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// RetryHandler serves POST /stories/retry.
func (h *Handler) RetryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req pipeline.RetryInput
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.stories.RetryStep(pipelineContext(r), caller(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
