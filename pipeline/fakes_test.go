package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"colorstory/ai"
	"colorstory/db"
	"colorstory/models"
)

// recordingStore wraps the in-memory store and keeps every write it sees.
type recordingStore struct {
	*db.MemoryStories

	mu        sync.Mutex
	creates   int
	patches   []models.StoryPatch
	failMerge func(models.StoryPatch) error
	onGet     func(id string)
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStories: db.NewMemoryStories()}
}

func (r *recordingStore) Create(ctx context.Context, story *models.Story) error {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	return r.MemoryStories.Create(ctx, story)
}

func (r *recordingStore) Get(ctx context.Context, id string) (*models.Story, error) {
	story, err := r.MemoryStories.Get(ctx, id)
	r.mu.Lock()
	hook := r.onGet
	r.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	return story, err
}

func (r *recordingStore) Merge(ctx context.Context, id string, patch models.StoryPatch) error {
	r.mu.Lock()
	r.patches = append(r.patches, patch)
	fail := r.failMerge
	r.mu.Unlock()
	if fail != nil {
		if err := fail(patch); err != nil {
			return err
		}
	}
	return r.MemoryStories.Merge(ctx, id, patch)
}

func (r *recordingStore) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates + len(r.patches)
}

// progressTrail lists every progress value written, in order.
func (r *recordingStore) progressTrail() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []float64
	for _, p := range r.patches {
		if p.Progress != nil {
			out = append(out, *p.Progress)
		}
	}
	return out
}

type failingObjects struct {
	err error
}

func (f failingObjects) Store(context.Context, string, []byte, string) (string, error) {
	return "", f.err
}

// fakeGen answers every request kind with a well-formed response unless
// respond is overridden.
type fakeGen struct {
	mu      sync.Mutex
	calls   []ai.Request
	respond func(ai.Request) (*ai.Response, error)
}

func (g *fakeGen) Provider() string { return "fake" }

func (g *fakeGen) Generate(_ context.Context, req ai.Request) (*ai.Response, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	respond := g.respond
	g.mu.Unlock()
	if respond != nil {
		return respond(req)
	}
	return goodResponse(req)
}

func (g *fakeGen) requests(kind ai.Kind) []ai.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []ai.Request
	for _, c := range g.calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func goodResponse(req ai.Request) (*ai.Response, error) {
	switch req.Kind {
	case ai.KindJSON:
		return &ai.Response{Text: usageGuideJSON(4)}, nil
	case ai.KindImage:
		return &ai.Response{Image: []byte("\x89PNG fake"), ImageMIME: "image/png"}, nil
	default:
		return &ai.Response{Text: "# Morning Light\n\nA **calm** kitchen in deep navy."}, nil
	}
}

func usageGuideJSON(n int) string {
	roles := []string{"main", "trim", "ceiling", "accent", "door", "cabinet", "floor"}
	items := make([]models.UsageItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.UsageItem{
			Role:                 roles[i%len(roles)],
			Hex:                  "#112233",
			Name:                 "Deep Navy",
			BrandName:            "Acme Paints",
			Code:                 fmt.Sprintf("AP-%d", i),
			Surface:              "walls",
			FinishRecommendation: "eggshell",
			Sheen:                "low",
			HowToUse:             "Roll two coats.",
		})
	}
	data, _ := json.Marshal(map[string]any{"items": items})
	return string(data)
}

type fakeSpeech struct {
	err error
}

func (f *fakeSpeech) Provider() string { return "fake-tts" }

func (f *fakeSpeech) Synthesize(_ context.Context, text string, _ ai.Voice) (*ai.Audio, error) {
	if f.err != nil {
		return nil, f.err
	}
	if text == "" {
		return nil, errors.New("empty text")
	}
	return &ai.Audio{Data: ai.EncodeWAV(make([]byte, 64), 24000), ContentType: "audio/wav"}, nil
}
