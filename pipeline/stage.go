package pipeline

import (
	"context"
	"mime"
	"strings"

	"colorstory/models"
)

const (
	progressCreated  = 0.1
	progressComplete = 1.0
	retryBump        = 0.05
)

// Stage is one generation step. Run depends only on the story context, so
// fresh runs, variants and retries call it the same way. Run returns the
// fields to persist; an error means the stage has no fallback left.
type Stage interface {
	Name() models.Stage
	Run(ctx context.Context, sc *models.StoryContext) (models.StoryPatch, error)
}

type stageInfo struct {
	progress float64
	message  string
}

var stageTable = map[models.Stage]stageInfo{
	models.StageNarration:  {progress: 0.3, message: "Writing your color story"},
	models.StageUsageGuide: {progress: 0.5, message: "Building the usage guide"},
	models.StageHero:       {progress: 0.7, message: "Painting the hero image"},
	models.StageAudio:      {progress: 0.9, message: "Recording the narration"},
}

// BaseProgress is the ledger value written when a stage starts.
func BaseProgress(st models.Stage) float64 {
	return stageTable[st].progress
}

func stageMessage(st models.Stage) string {
	return stageTable[st].message
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".bin"
	}
}
