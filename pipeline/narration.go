package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"colorstory/ai"
	"colorstory/models"
	"colorstory/prompts"
)

// narrationStage writes the free-text story. It never fails: an error or an
// empty response persists an empty narration, which the audio stage replaces
// with a filler sentence.
type narrationStage struct {
	gen   ai.Generator
	model string
	log   *zap.Logger
}

func (s *narrationStage) Name() models.Stage { return models.StageNarration }

func (s *narrationStage) Run(ctx context.Context, sc *models.StoryContext) (models.StoryPatch, error) {
	attr := &models.Attribution{Provider: s.gen.Provider(), Model: s.model}

	narration := ""
	resp, err := s.gen.Generate(ctx, ai.Request{
		Model:  s.model,
		Prompt: prompts.NarrationPrompt(sc),
		Kind:   ai.KindText,
	})
	switch {
	case err != nil:
		s.log.Warn("Narration generation failed", zap.String("story_id", sc.StoryID), zap.Error(err))
		attr.Fallback = true
		attr.Note = err.Error()
	case resp == nil || strings.TrimSpace(resp.Text) == "":
		attr.Fallback = true
		attr.Note = "empty response"
	default:
		narration = strings.TrimSpace(resp.Text)
	}

	html, err := renderHTML(narration)
	if err != nil {
		s.log.Warn("Failed to render narration", zap.String("story_id", sc.StoryID), zap.Error(err))
		html = ""
	}

	return models.StoryPatch{
		Narration:        &narration,
		NarrationHTML:    &html,
		ModelAttribution: attr,
	}, nil
}
