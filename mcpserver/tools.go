package mcpserver

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"colorstory/models"
	"colorstory/palette"
	"colorstory/pipeline"
)

type GenerateStoryInput struct {
	Palette     *palette.Structured `json:"palette,omitempty" jsonschema:"structured palette with items (each with a hex color) and an optional name"`
	PaletteName string              `json:"paletteName,omitempty" jsonschema:"legacy palette name, used together with hexes"`
	Hexes       []string            `json:"hexes,omitempty" jsonschema:"legacy list of 6-digit hex colors"`
	Room        string              `json:"room,omitempty" jsonschema:"room the palette is for, e.g. kitchen"`
	Style       string              `json:"style,omitempty" jsonschema:"interior style, e.g. modern"`
	VibeWords   []string            `json:"vibeWords,omitempty" jsonschema:"words describing the desired mood"`
	Access      string              `json:"access,omitempty" jsonschema:"private (default) or public"`
}

type GenerateVariantInput struct {
	StoryID    string   `json:"storyId" jsonschema:"id of the parent story"`
	Emphasis   string   `json:"emphasis,omitempty" jsonschema:"what the variant should lean into"`
	VibeTweaks []string `json:"vibeTweaks,omitempty" jsonschema:"extra mood words"`
}

type RetryStepInput struct {
	StoryID string `json:"storyId" jsonschema:"id of the story"`
	Step    string `json:"step" jsonschema:"one of narration, usage-guide, hero, audio"`
}

type GetStoryInput struct {
	StoryID string `json:"storyId" jsonschema:"id of the story"`
}

type GenerateStoryOutput struct {
	StoryID string `json:"storyId"`
}

type GenerateVariantOutput struct {
	StoryID   string   `json:"storyId"`
	VariantOf string   `json:"variantOf"`
	Emphasis  string   `json:"emphasis,omitempty"`
	VibeWords []string `json:"vibeWords"`
	Status    string   `json:"status"`
}

type RetryStepOutput struct {
	StoryID string `json:"storyId"`
	Step    string `json:"step"`
	Status  string `json:"status"`
}

type UsageItemOutput struct {
	Role                 string `json:"role"`
	Hex                  string `json:"hex"`
	Name                 string `json:"name"`
	BrandName            string `json:"brandName"`
	Code                 string `json:"code"`
	Surface              string `json:"surface"`
	FinishRecommendation string `json:"finishRecommendation"`
	Sheen                string `json:"sheen"`
	HowToUse             string `json:"howToUse"`
}

type StoryOutput struct {
	ID              string            `json:"id"`
	OwnerID         string            `json:"ownerId"`
	Access          string            `json:"access"`
	PaletteName     string            `json:"paletteName"`
	Hexes           []string          `json:"hexes"`
	Room            string            `json:"room"`
	Style           string            `json:"style"`
	VibeWords       []string          `json:"vibeWords"`
	VariantOf       string            `json:"variantOf,omitempty"`
	Narration       string            `json:"narration"`
	UsageGuide      []UsageItemOutput `json:"usageGuide"`
	HeroImageURL    string            `json:"heroImageUrl,omitempty"`
	HeroFallback    bool              `json:"heroFallback"`
	AudioURL        string            `json:"audioUrl,omitempty"`
	Status          string            `json:"status"`
	Progress        float64           `json:"progress"`
	ProgressMessage string            `json:"progressMessage"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_story",
		Description: "Generate a color story (narration, usage guide, hero image, audio) from a palette",
	}, s.handleGenerateStory)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_story_variant",
		Description: "Generate a variant of an existing story with a new emphasis",
	}, s.handleGenerateVariant)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "retry_story_step",
		Description: "Re-run one generation step of an existing story",
	}, s.handleRetryStep)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_story",
		Description: "Fetch a story and its generation progress",
	}, s.handleGetStory)
}

func (s *Server) handleGenerateStory(ctx context.Context, req *sdk.CallToolRequest, input GenerateStoryInput) (*sdk.CallToolResult, GenerateStoryOutput, error) {
	res, err := s.stories.GenerateStory(ctx, s.caller, pipeline.StoryInput{
		Source: palette.Source{
			Palette:     input.Palette,
			PaletteName: input.PaletteName,
			Hexes:       input.Hexes,
		},
		Room:      input.Room,
		Style:     input.Style,
		VibeWords: input.VibeWords,
		Access:    models.Access(input.Access),
	})
	if err != nil {
		return nil, GenerateStoryOutput{}, s.toolError("generate_story", err)
	}
	return nil, GenerateStoryOutput{StoryID: res.StoryID}, nil
}

func (s *Server) handleGenerateVariant(ctx context.Context, req *sdk.CallToolRequest, input GenerateVariantInput) (*sdk.CallToolResult, GenerateVariantOutput, error) {
	if input.StoryID == "" {
		return nil, GenerateVariantOutput{}, fmt.Errorf("storyId is required")
	}
	res, err := s.stories.GenerateVariant(ctx, s.caller, pipeline.VariantInput{
		StoryID:    input.StoryID,
		Emphasis:   input.Emphasis,
		VibeTweaks: input.VibeTweaks,
	})
	if err != nil {
		return nil, GenerateVariantOutput{}, s.toolError("generate_story_variant", err)
	}
	return nil, GenerateVariantOutput{
		StoryID:   res.StoryID,
		VariantOf: res.VariantOf,
		Emphasis:  res.Emphasis,
		VibeWords: res.VibeWords,
		Status:    string(res.Status),
	}, nil
}

func (s *Server) handleRetryStep(ctx context.Context, req *sdk.CallToolRequest, input RetryStepInput) (*sdk.CallToolResult, RetryStepOutput, error) {
	if input.StoryID == "" {
		return nil, RetryStepOutput{}, fmt.Errorf("storyId is required")
	}
	res, err := s.stories.RetryStep(ctx, s.caller, pipeline.RetryInput{StoryID: input.StoryID, Step: input.Step})
	if err != nil {
		return nil, RetryStepOutput{}, s.toolError("retry_story_step", err)
	}
	return nil, RetryStepOutput{StoryID: res.StoryID, Step: string(res.Step), Status: res.Status}, nil
}

func (s *Server) handleGetStory(ctx context.Context, req *sdk.CallToolRequest, input GetStoryInput) (*sdk.CallToolResult, StoryOutput, error) {
	if input.StoryID == "" {
		return nil, StoryOutput{}, fmt.Errorf("storyId is required")
	}
	story, err := s.stories.GetStory(ctx, s.caller, input.StoryID)
	if err != nil {
		return nil, StoryOutput{}, s.toolError("get_story", err)
	}
	return nil, storyOutputFromModel(story), nil
}

func (s *Server) toolError(tool string, err error) error {
	s.log.Warn("Tool call failed", zap.String("tool", tool), zap.Error(err))
	return err
}

func storyOutputFromModel(story *models.Story) StoryOutput {
	out := StoryOutput{
		ID:              story.ID,
		OwnerID:         story.OwnerID,
		Access:          string(story.Access),
		PaletteName:     story.Palette.Name,
		Hexes:           story.Palette.Hexes,
		Room:            story.Room,
		Style:           story.Style,
		VibeWords:       story.VibeWords,
		VariantOf:       story.VariantOf,
		Narration:       story.Narration,
		UsageGuide:      make([]UsageItemOutput, 0, len(story.UsageGuide)),
		HeroImageURL:    story.HeroImageURL,
		HeroFallback:    story.HeroImageAttribution != nil && story.HeroImageAttribution.Fallback,
		AudioURL:        story.AudioURL,
		Status:          string(story.Status),
		Progress:        story.Progress,
		ProgressMessage: story.ProgressMessage,
	}
	if !story.UpdatedAt.IsZero() {
		out.UpdatedAt = story.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, item := range story.UsageGuide {
		out.UsageGuide = append(out.UsageGuide, UsageItemOutput(item))
	}
	return out
}
