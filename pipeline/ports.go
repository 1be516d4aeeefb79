// Package pipeline runs the color story generation stages and exposes the
// three entry points: fresh generation, variant generation and single-stage
// retry.
package pipeline

import (
	"context"

	"colorstory/models"
)

// StoryStore is the document store holding stories. Merge must preserve
// fields the patch does not name and refresh updatedAt on the server.
type StoryStore interface {
	Create(ctx context.Context, story *models.Story) error
	Get(ctx context.Context, id string) (*models.Story, error)
	Merge(ctx context.Context, id string, patch models.StoryPatch) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Story, int64, error)
}

// ObjectStore keeps bytes durably and returns a public URL for them.
type ObjectStore interface {
	Store(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
