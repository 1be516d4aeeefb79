package pipeline

import (
	"context"

	"go.uber.org/zap"

	"colorstory/models"
)

// Ledger is the progress trail of one story for the duration of a single
// pipeline invocation. It only ever merges; nothing it writes is rolled back.
type Ledger struct {
	store   StoryStore
	storyID string
	log     *zap.Logger
}

func NewLedger(store StoryStore, storyID string, log *zap.Logger) *Ledger {
	return &Ledger{store: store, storyID: storyID, log: log.With(zap.String("story_id", storyID))}
}

func (l *Ledger) StoryID() string { return l.storyID }

// WriteProgress merges status, progress and message. The store refreshes
// updatedAt.
func (l *Ledger) WriteProgress(ctx context.Context, status models.Status, progress float64, message string) error {
	return l.store.Merge(ctx, l.storyID, models.ProgressPatch(status, progress, message))
}

// Save merges a stage's output fields.
func (l *Ledger) Save(ctx context.Context, patch models.StoryPatch) error {
	return l.store.Merge(ctx, l.storyID, patch)
}

// MarkFailed records the terminal error state. A failure here is logged and
// dropped so the caller still sees the original cause.
func (l *Ledger) MarkFailed(ctx context.Context, progress float64, cause error) {
	if err := l.WriteProgress(ctx, models.StatusError, progress, cause.Error()); err != nil {
		l.log.Error("Failed to record error state",
			zap.Float64("progress", progress),
			zap.NamedError("cause", cause),
			zap.Error(err))
	}
}
