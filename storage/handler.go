package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"colorstory/apperr"
)

// AssetPrefix is the URL path assets are served under.
const AssetPrefix = "/assets/"

// Source is a readable object store.
type Source interface {
	Open(ctx context.Context, path string) ([]byte, string, error)
}

// Handler serves stored objects to anyone.
func Handler(src Source, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, AssetPrefix)
		if path == "" || path == r.URL.Path || strings.Contains(path, "..") {
			http.Error(w, "Asset path is required", http.StatusBadRequest)
			return
		}

		data, contentType, err := src.Open(r.Context(), path)
		if errors.Is(err, apperr.ErrNotFound) {
			http.Error(w, "Asset not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("Failed to read asset", zap.String("path", path), zap.Error(err))
			http.Error(w, "Failed to read asset", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(data)
		}
	}
}
