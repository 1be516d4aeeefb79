package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"colorstory/ai"
	"colorstory/models"
	"colorstory/placeholder"
	"colorstory/prompts"
)

// heroStage renders the hero image. When the model returns no image, or the
// call or upload fails, a gradient placeholder is stored instead.
type heroStage struct {
	gen     ai.Generator
	model   string
	objects ObjectStore
	log     *zap.Logger
}

func (s *heroStage) Name() models.Stage { return models.StageHero }

func (s *heroStage) Run(ctx context.Context, sc *models.StoryContext) (models.StoryPatch, error) {
	prompt := prompts.HeroPrompt(sc)

	url, err := s.generate(ctx, sc, prompt)
	if err == nil {
		return models.StoryPatch{
			HeroImageURL:         &url,
			HeroPrompt:           &prompt,
			HeroImageAttribution: &models.Attribution{Provider: s.gen.Provider(), Model: s.model},
		}, nil
	}

	s.log.Warn("Hero image generation failed, using placeholder",
		zap.String("story_id", sc.StoryID), zap.Error(err))

	asset := placeholder.Gradient(sc.Hexes()...)
	path := fmt.Sprintf("stories/%s/hero-fallback%s", sc.StoryID, extensionFor(asset.ContentType))
	url, storeErr := s.objects.Store(ctx, path, asset.Data, asset.ContentType)
	if storeErr != nil {
		return models.StoryPatch{}, fmt.Errorf("store placeholder hero image: %w", storeErr)
	}

	return models.StoryPatch{
		HeroImageURL: &url,
		HeroPrompt:   &prompt,
		HeroImageAttribution: &models.Attribution{
			Provider: placeholder.Provider,
			Fallback: true,
			Note:     err.Error(),
		},
	}, nil
}

func (s *heroStage) generate(ctx context.Context, sc *models.StoryContext, prompt string) (string, error) {
	resp, err := s.gen.Generate(ctx, ai.Request{Model: s.model, Prompt: prompt, Kind: ai.KindImage})
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Image) == 0 {
		return "", errors.New("model returned no image")
	}

	contentType := resp.ImageMIME
	if contentType == "" {
		contentType = "image/png"
	}
	path := fmt.Sprintf("stories/%s/hero-%s%s", sc.StoryID, uuid.NewString(), extensionFor(contentType))
	url, err := s.objects.Store(ctx, path, resp.Image, contentType)
	if err != nil {
		return "", fmt.Errorf("store hero image: %w", err)
	}
	return url, nil
}
