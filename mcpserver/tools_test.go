package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"colorstory/apperr"
	"colorstory/models"
	"colorstory/palette"
	"colorstory/pipeline"
)

type mockStoryService struct {
	err   error
	story *models.Story

	lastCaller  pipeline.Caller
	lastStory   pipeline.StoryInput
	lastVariant pipeline.VariantInput
	lastRetry   pipeline.RetryInput
	lastGetID   string
}

func (m *mockStoryService) GenerateStory(_ context.Context, c pipeline.Caller, in pipeline.StoryInput) (*pipeline.GenerateResult, error) {
	m.lastCaller, m.lastStory = c, in
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.GenerateResult{StoryID: "s1"}, nil
}

func (m *mockStoryService) GenerateVariant(_ context.Context, c pipeline.Caller, in pipeline.VariantInput) (*pipeline.VariantResult, error) {
	m.lastCaller, m.lastVariant = c, in
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.VariantResult{StoryID: "s2", VariantOf: in.StoryID, Emphasis: in.Emphasis, VibeWords: []string{"calm"}, Status: models.StatusComplete}, nil
}

func (m *mockStoryService) RetryStep(_ context.Context, c pipeline.Caller, in pipeline.RetryInput) (*pipeline.RetryResult, error) {
	m.lastCaller, m.lastRetry = c, in
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.RetryResult{StoryID: in.StoryID, Step: models.Stage(in.Step), Status: "retried"}, nil
}

func (m *mockStoryService) GetStory(_ context.Context, c pipeline.Caller, id string) (*models.Story, error) {
	m.lastCaller, m.lastGetID = c, id
	if m.err != nil {
		return nil, m.err
	}
	return m.story, nil
}

func newTestServer(t *testing.T, svc StoryService) *Server {
	return NewServer(svc, "user-1", "test", zaptest.NewLogger(t))
}

func TestGenerateStoryTool(t *testing.T) {
	svc := &mockStoryService{}
	server := newTestServer(t, svc)

	_, out, err := server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{
		Palette: &palette.Structured{Name: "Test", Items: []models.PaletteItem{{Hex: "#112233"}}},
		Room:    "kitchen",
		Style:   "modern",
		Access:  "public",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", out.StoryID)

	assert.Equal(t, pipeline.Caller{UID: "user-1"}, svc.lastCaller)
	want := pipeline.StoryInput{
		Source: palette.Source{Palette: &palette.Structured{Name: "Test", Items: []models.PaletteItem{{Hex: "#112233"}}}},
		Room:   "kitchen",
		Style:  "modern",
		Access: models.AccessPublic,
	}
	if diff := cmp.Diff(want, svc.lastStory); diff != "" {
		t.Errorf("story input mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateStoryToolPropagatesError(t *testing.T) {
	server := newTestServer(t, &mockStoryService{err: apperr.New(apperr.InvalidArgument, "bad palette")})

	_, _, err := server.handleGenerateStory(context.Background(), nil, GenerateStoryInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
}

func TestGenerateVariantTool(t *testing.T) {
	svc := &mockStoryService{}
	server := newTestServer(t, svc)

	_, _, err := server.handleGenerateVariant(context.Background(), nil, GenerateVariantInput{})
	require.Error(t, err)

	_, out, err := server.handleGenerateVariant(context.Background(), nil, GenerateVariantInput{StoryID: "s1", Emphasis: "warmer"})
	require.NoError(t, err)
	assert.Equal(t, GenerateVariantOutput{StoryID: "s2", VariantOf: "s1", Emphasis: "warmer", VibeWords: []string{"calm"}, Status: "complete"}, out)
}

func TestRetryStepTool(t *testing.T) {
	svc := &mockStoryService{}
	server := newTestServer(t, svc)

	_, out, err := server.handleRetryStep(context.Background(), nil, RetryStepInput{StoryID: "s1", Step: "hero"})
	require.NoError(t, err)
	assert.Equal(t, RetryStepOutput{StoryID: "s1", Step: "hero", Status: "retried"}, out)
	assert.Equal(t, pipeline.RetryInput{StoryID: "s1", Step: "hero"}, svc.lastRetry)
}

func TestGetStoryTool(t *testing.T) {
	updated := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	svc := &mockStoryService{story: &models.Story{
		ID:                   "s1",
		OwnerID:              "user-1",
		Access:               models.AccessPrivate,
		Palette:              models.Palette{Name: "Test", Hexes: []string{"#112233"}},
		UsageGuide:           []models.UsageItem{{Role: "main", Hex: "#112233"}},
		HeroImageURL:         "/assets/stories/s1/hero-fallback.svg",
		HeroImageAttribution: &models.Attribution{Provider: "fallback-gradient", Fallback: true},
		Status:               models.StatusComplete,
		Progress:             1,
		UpdatedAt:            updated,
	}}
	server := newTestServer(t, svc)

	_, out, err := server.handleGetStory(context.Background(), nil, GetStoryInput{StoryID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", svc.lastGetID)
	assert.Equal(t, "Test", out.PaletteName)
	assert.True(t, out.HeroFallback)
	assert.Equal(t, "complete", out.Status)
	assert.Equal(t, "2026-05-04T10:00:00Z", out.UpdatedAt)
	require.Len(t, out.UsageGuide, 1)
	assert.Equal(t, "main", out.UsageGuide[0].Role)
}

func TestGetStoryToolNotFound(t *testing.T) {
	server := newTestServer(t, &mockStoryService{err: apperr.New(apperr.NotFound, "story missing not found")})

	_, _, err := server.handleGetStory(context.Background(), nil, GetStoryInput{StoryID: "missing"})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}
