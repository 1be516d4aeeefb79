package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"colorstory/ai"
	"colorstory/models"
)

const fillerNarration = "Here is your color story. Picture these colors in your space and let them set the mood."

// audioStage narrates the story. It has no fallback.
type audioStage struct {
	speech  ai.Synthesizer
	voice   ai.Voice
	objects ObjectStore
}

func (s *audioStage) Name() models.Stage { return models.StageAudio }

func (s *audioStage) Run(ctx context.Context, sc *models.StoryContext) (models.StoryPatch, error) {
	script := plainText(sc.Narration)
	if strings.TrimSpace(script) == "" {
		script = fillerNarration
	}

	audio, err := s.speech.Synthesize(ctx, script, s.voice)
	if err != nil {
		return models.StoryPatch{}, fmt.Errorf("synthesize narration: %w", err)
	}
	if audio == nil || len(audio.Data) == 0 {
		return models.StoryPatch{}, errors.New("synthesize narration: no audio returned")
	}

	path := fmt.Sprintf("stories/%s/narration-%s%s", sc.StoryID, uuid.NewString(), extensionFor(audio.ContentType))
	url, err := s.objects.Store(ctx, path, audio.Data, audio.ContentType)
	if err != nil {
		return models.StoryPatch{}, fmt.Errorf("store narration audio: %w", err)
	}

	return models.StoryPatch{
		AudioURL:         &url,
		AudioAttribution: &models.Attribution{Provider: s.speech.Provider(), Model: s.voice.Model},
	}, nil
}
