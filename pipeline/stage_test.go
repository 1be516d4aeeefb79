package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"colorstory/ai"
	"colorstory/models"
	"colorstory/storage"
)

func TestBaseProgressIncreases(t *testing.T) {
	prev := progressCreated
	for _, st := range models.Stages {
		assert.Greater(t, BaseProgress(st), prev, st)
		assert.NotEmpty(t, stageMessage(st), st)
		prev = BaseProgress(st)
	}
	assert.Less(t, prev+retryBump, progressComplete)
}

func TestExtensionFor(t *testing.T) {
	tests := map[string]string{
		"image/png":               ".png",
		"image/jpeg":              ".jpg",
		"image/svg+xml":           ".svg",
		"audio/wav":               ".wav",
		"audio/L16;codec=pcm":     ".bin",
		"audio/mpeg":              ".mp3",
		"Image/PNG; charset=utf8": ".png",
		"":                        ".bin",
	}
	for in, want := range tests {
		assert.Equal(t, want, extensionFor(in), in)
	}
}

func TestNarrationStageEmptyResponse(t *testing.T) {
	gen := &fakeGen{respond: func(ai.Request) (*ai.Response, error) {
		return &ai.Response{Text: "  "}, nil
	}}
	st := &narrationStage{gen: gen, model: "m", log: zaptest.NewLogger(t)}

	patch, err := st.Run(context.Background(), &models.StoryContext{StoryID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "", *patch.Narration)
	assert.Equal(t, "", *patch.NarrationHTML)
	assert.True(t, patch.ModelAttribution.Fallback)
	assert.Equal(t, "empty response", patch.ModelAttribution.Note)
}

func TestHeroStageStoresGeneratedImage(t *testing.T) {
	objects := storage.NewMemory("http://cdn")
	st := &heroStage{gen: &fakeGen{}, model: "img", objects: objects, log: zaptest.NewLogger(t)}

	patch, err := st.Run(context.Background(), &models.StoryContext{
		StoryID: "s1",
		Palette: models.Palette{Name: "Dusk", Hexes: []string{"#112233"}},
		Room:    "study",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(*patch.HeroImageURL, "http://cdn/assets/stories/s1/hero-"))
	assert.True(t, strings.HasSuffix(*patch.HeroImageURL, ".png"))
	assert.Equal(t, &models.Attribution{Provider: "fake", Model: "img"}, patch.HeroImageAttribution)
	assert.NotEmpty(t, *patch.HeroPrompt)
	assert.Len(t, objects.Paths(), 1)
}

func TestAudioStageUsesFiller(t *testing.T) {
	var spoken string
	st := &audioStage{speech: synthFunc(func(text string) { spoken = text }), objects: storage.NewMemory("")}

	_, err := st.Run(context.Background(), &models.StoryContext{StoryID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, fillerNarration, spoken)
}

func TestAudioStageRejectsEmptyAudio(t *testing.T) {
	st := &audioStage{speech: emptySpeech{}, objects: storage.NewMemory("")}

	_, err := st.Run(context.Background(), &models.StoryContext{StoryID: "s1", Narration: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio returned")
}

func TestAudioStageUploadFailure(t *testing.T) {
	st := &audioStage{speech: &fakeSpeech{}, objects: failingObjects{err: errors.New("denied")}}

	_, err := st.Run(context.Background(), &models.StoryContext{StoryID: "s1", Narration: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store narration audio: denied")
}

type emptySpeech struct{}

func (emptySpeech) Provider() string { return "empty" }

func (emptySpeech) Synthesize(context.Context, string, ai.Voice) (*ai.Audio, error) {
	return &ai.Audio{}, nil
}
