package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"colorstory/ai"
	"colorstory/models"
	"colorstory/palette"
	"colorstory/prompts"
)

const (
	minUsageItems = 4
	maxUsageItems = 6
)

var usageItemFields = []string{
	"role", "hex", "name", "brandName", "code", "surface", "finishRecommendation", "sheen", "howToUse",
}

func usageGuideSchema() *ai.Schema {
	props := make(map[string]*ai.Schema, len(usageItemFields))
	for _, f := range usageItemFields {
		props[f] = &ai.Schema{Type: "string"}
	}
	return &ai.Schema{
		Type:     "object",
		Required: []string{"items"},
		Properties: map[string]*ai.Schema{
			"items": {
				Type:     "array",
				MinItems: minUsageItems,
				MaxItems: maxUsageItems,
				Items: &ai.Schema{
					Type:       "object",
					Properties: props,
					Required:   usageItemFields,
				},
			},
		},
	}
}

// usageGuideStage asks for a structured guide and accepts it only whole.
// Anything that fails to parse or validate is replaced by an empty guide.
type usageGuideStage struct {
	gen   ai.Generator
	model string
	log   *zap.Logger
}

func (s *usageGuideStage) Name() models.Stage { return models.StageUsageGuide }

func (s *usageGuideStage) Run(ctx context.Context, sc *models.StoryContext) (models.StoryPatch, error) {
	attr := &models.Attribution{Provider: s.gen.Provider(), Model: s.model}

	items, err := s.generate(ctx, sc)
	if err != nil {
		s.log.Warn("Usage guide rejected", zap.String("story_id", sc.StoryID), zap.Error(err))
		items = []models.UsageItem{}
		attr.Fallback = true
		attr.Note = err.Error()
	}

	return models.StoryPatch{UsageGuide: &items, UsageGuideAttribution: attr}, nil
}

func (s *usageGuideStage) generate(ctx context.Context, sc *models.StoryContext) ([]models.UsageItem, error) {
	resp, err := s.gen.Generate(ctx, ai.Request{
		Model:  s.model,
		Prompt: prompts.UsageGuidePrompt(sc),
		Kind:   ai.KindJSON,
		Schema: usageGuideSchema(),
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	return parseUsageGuide(resp.Text)
}

type usageGuideResponse struct {
	Items []models.UsageItem `json:"items"`
}

// parseUsageGuide decodes a model response strictly. The response may be the
// {"items": [...]} object or a bare array, optionally inside a code fence.
func parseUsageGuide(raw string) ([]models.UsageItem, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	var items []models.UsageItem
	if strings.HasPrefix(body, "[") {
		if err := decodeStrict(body, &items); err != nil {
			return nil, fmt.Errorf("parse usage guide: %w", err)
		}
	} else {
		var wrapped usageGuideResponse
		if err := decodeStrict(body, &wrapped); err != nil {
			return nil, fmt.Errorf("parse usage guide: %w", err)
		}
		items = wrapped.Items
	}

	if len(items) < minUsageItems || len(items) > maxUsageItems {
		return nil, fmt.Errorf("expected %d-%d usage items, got %d", minUsageItems, maxUsageItems, len(items))
	}

	out := make([]models.UsageItem, 0, len(items))
	for i, item := range items {
		valid, err := validateUsageItem(item)
		if err != nil {
			return nil, fmt.Errorf("usage item %d: %w", i, err)
		}
		out = append(out, valid)
	}
	return out, nil
}

func validateUsageItem(item models.UsageItem) (models.UsageItem, error) {
	fields := []*string{
		&item.Role, &item.Hex, &item.Name, &item.BrandName, &item.Code,
		&item.Surface, &item.FinishRecommendation, &item.Sheen, &item.HowToUse,
	}
	for i, f := range fields {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return models.UsageItem{}, fmt.Errorf("%s is required", usageItemFields[i])
		}
	}

	hex, ok := palette.NormalizeHex(item.Hex)
	if !ok {
		return models.UsageItem{}, fmt.Errorf("invalid hex %q", item.Hex)
	}
	item.Hex = hex
	return item, nil
}

func decodeStrict(body string, v any) error {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}

func stripCodeFence(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
