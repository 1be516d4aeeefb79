package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"colorstory/ai"
	"colorstory/apperr"
	"colorstory/models"
	"colorstory/palette"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Options wires a Service to its collaborators.
type Options struct {
	Stories StoryStore
	Objects ObjectStore
	Text    ai.Generator
	Speech  ai.Synthesizer

	TextModel  string
	ImageModel string
	Voice      ai.Voice

	Logger *zap.Logger
	// NewID returns a fresh story id. Defaults to a Mongo ObjectID hex.
	NewID func() string
}

// Service runs the story pipeline for the three entry points.
type Service struct {
	stories StoryStore
	stages  []Stage
	byName  map[models.Stage]Stage
	newID   func() string
	log     *zap.Logger

	inflight singleflight.Group
}

func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Stories == nil:
		return nil, errors.New("pipeline: story store is required")
	case opts.Objects == nil:
		return nil, errors.New("pipeline: object store is required")
	case opts.Text == nil:
		return nil, errors.New("pipeline: text generator is required")
	case opts.Speech == nil:
		return nil, errors.New("pipeline: speech synthesizer is required")
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return primitive.NewObjectID().Hex() }
	}

	stages := []Stage{
		&narrationStage{gen: opts.Text, model: opts.TextModel, log: log},
		&usageGuideStage{gen: opts.Text, model: opts.TextModel, log: log},
		&heroStage{gen: opts.Text, model: opts.ImageModel, objects: opts.Objects, log: log},
		&audioStage{speech: opts.Speech, voice: opts.Voice, objects: opts.Objects},
	}
	byName := make(map[models.Stage]Stage, len(stages))
	for _, st := range stages {
		byName[st.Name()] = st
	}

	return &Service{
		stories: opts.Stories,
		stages:  stages,
		byName:  byName,
		newID:   newID,
		log:     log.With(zap.String("component", "pipeline")),
	}, nil
}

// StoryInput is the payload of a fresh generation. The palette arrives in
// either accepted shape.
type StoryInput struct {
	palette.Source
	Room      string        `json:"room"`
	Style     string        `json:"style"`
	VibeWords []string      `json:"vibeWords,omitempty"`
	Access    models.Access `json:"access,omitempty"`
}

type VariantInput struct {
	StoryID    string   `json:"storyId"`
	Emphasis   string   `json:"emphasis,omitempty"`
	VibeTweaks []string `json:"vibeTweaks,omitempty"`
}

type RetryInput struct {
	StoryID string `json:"storyId"`
	Step    string `json:"step"`
}

type GenerateResult struct {
	StoryID string `json:"storyId"`
}

type VariantResult struct {
	StoryID   string        `json:"storyId"`
	VariantOf string        `json:"variantOf"`
	Emphasis  string        `json:"emphasis,omitempty"`
	VibeWords []string      `json:"vibeWords"`
	Status    models.Status `json:"status"`
}

type RetryResult struct {
	StoryID string       `json:"storyId"`
	Step    models.Stage `json:"step"`
	Status  string       `json:"status"`
}

// StoryPage is one page of a caller's stories, newest first.
type StoryPage struct {
	Stories []models.Story `json:"stories"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// GenerateStory creates a story from in and runs every stage on it.
func (s *Service) GenerateStory(ctx context.Context, caller Caller, in StoryInput) (*GenerateResult, error) {
	if err := RequireIdentity(caller); err != nil {
		return nil, err
	}
	access, err := parseAccess(in.Access)
	if err != nil {
		return nil, err
	}
	pal, err := palette.Normalize(in.Source)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		ID:         s.newID(),
		OwnerID:    caller.UID,
		Access:     access,
		Palette:    pal,
		Room:       strings.TrimSpace(in.Room),
		Style:      strings.TrimSpace(in.Style),
		VibeWords:  mergeVibe(in.VibeWords),
		BrandHints: palette.BrandHints(pal),
	}
	if err := s.create(ctx, story); err != nil {
		return nil, err
	}

	if err := s.run(ctx, story); err != nil {
		return nil, err
	}
	return &GenerateResult{StoryID: story.ID}, nil
}

// GenerateVariant derives a new story from a parent the caller owns and runs
// every stage on it.
func (s *Service) GenerateVariant(ctx context.Context, caller Caller, in VariantInput) (*VariantResult, error) {
	if err := RequireIdentity(caller); err != nil {
		return nil, err
	}
	parent, err := s.load(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, parent); err != nil {
		return nil, err
	}

	emphasis := strings.TrimSpace(in.Emphasis)
	tweaks := mergeVibe(in.VibeTweaks)
	extra := append([]string{emphasis}, tweaks...)

	story := &models.Story{
		ID:         s.newID(),
		OwnerID:    caller.UID,
		Access:     parent.Access,
		Palette:    parent.Palette,
		Room:       parent.Room,
		Style:      parent.Style,
		VibeWords:  mergeVibe(parent.VibeWords, extra),
		BrandHints: append([]string(nil), parent.BrandHints...),
		VariantOf:  parent.ID,
		Emphasis:   emphasis,
		VibeTweaks: tweaks,
	}
	if story.Access == "" {
		story.Access = models.AccessPrivate
	}
	if err := s.create(ctx, story); err != nil {
		return nil, err
	}

	if err := s.run(ctx, story); err != nil {
		return nil, err
	}
	return &VariantResult{
		StoryID:   story.ID,
		VariantOf: parent.ID,
		Emphasis:  emphasis,
		VibeWords: story.VibeWords,
		Status:    models.StatusComplete,
	}, nil
}

// RetryStep re-runs one stage of an existing story from its persisted
// context. Concurrent retries of the same stage on the same story share one
// run.
func (s *Service) RetryStep(ctx context.Context, caller Caller, in RetryInput) (*RetryResult, error) {
	if err := RequireIdentity(caller); err != nil {
		return nil, err
	}
	story, err := s.load(ctx, in.StoryID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, story); err != nil {
		return nil, err
	}
	name, err := ParseStage(in.Step)
	if err != nil {
		return nil, err
	}

	key := story.ID + "/" + string(name)
	_, err, shared := s.inflight.Do(key, func() (any, error) {
		return nil, s.retry(ctx, story, name)
	})
	if shared {
		s.log.Info("Joined in-flight retry", zap.String("story_id", story.ID), zap.String("stage", string(name)))
	}
	if err != nil {
		return nil, err
	}
	return &RetryResult{StoryID: story.ID, Step: name, Status: "retried"}, nil
}

// GetStory returns a story the caller may read. Anonymous callers only
// resolve public stories; a missing id and a private one answer alike.
func (s *Service) GetStory(ctx context.Context, caller Caller, id string) (*models.Story, error) {
	story, err := s.load(ctx, id)
	if idErr := RequireIdentity(caller); idErr != nil {
		switch {
		case err == nil && story.Access == models.AccessPublic:
			return story, nil
		case err == nil, apperr.CodeOf(err) == apperr.NotFound:
			return nil, idErr
		default:
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}
	if err := CanRead(caller, story); err != nil {
		return nil, err
	}
	return story, nil
}

// ListStories pages through the caller's own stories.
func (s *Service) ListStories(ctx context.Context, caller Caller, limit, offset int) (*StoryPage, error) {
	if err := RequireIdentity(caller); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	stories, total, err := s.stories.ListByOwner(ctx, caller.UID, limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list stories")
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return &StoryPage{Stories: stories, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) create(ctx context.Context, story *models.Story) error {
	story.Status = models.StatusProcessing
	story.Progress = progressCreated
	story.ProgressMessage = "Story created"
	if err := s.stories.Create(ctx, story); err != nil {
		return apperr.Wrap(apperr.Internal, err, "create story")
	}
	s.log.Info("Created story",
		zap.String("story_id", story.ID),
		zap.String("owner_id", story.OwnerID),
		zap.String("variant_of", story.VariantOf))
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Story, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.New(apperr.InvalidArgument, "storyId is required")
	}
	story, err := s.stories.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Wrap(apperr.NotFound, err, "story %s not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "load story %s", id)
	}
	return story, nil
}

// run executes every stage in order against a freshly created story.
func (s *Service) run(ctx context.Context, story *models.Story) error {
	ledger := NewLedger(s.stories, story.ID, s.log)
	sc := models.NewStoryContext(story)
	started := time.Now()

	for _, st := range s.stages {
		name := st.Name()
		base := BaseProgress(name)
		if err := ledger.WriteProgress(ctx, models.StatusProcessing, base, stageMessage(name)); err != nil {
			return s.fail(ctx, ledger, base, name, fmt.Errorf("write progress: %w", err))
		}
		if err := s.runStage(ctx, ledger, st, sc); err != nil {
			return s.fail(ctx, ledger, base, name, err)
		}
	}

	// Assets are stored by now; try the completion write twice.
	err := ledger.WriteProgress(ctx, models.StatusComplete, progressComplete, "Your color story is ready")
	if err != nil {
		s.log.Warn("Completion write failed, retrying", zap.String("story_id", story.ID), zap.Error(err))
		err = ledger.WriteProgress(ctx, models.StatusComplete, progressComplete, "Your color story is ready")
	}
	if err != nil {
		return s.fail(ctx, ledger, BaseProgress(models.StageAudio), models.StageAudio, fmt.Errorf("write progress: %w", err))
	}
	s.log.Info("Story complete",
		zap.String("story_id", story.ID),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (s *Service) retry(ctx context.Context, story *models.Story, name models.Stage) error {
	ledger := NewLedger(s.stories, story.ID, s.log)
	sc := models.NewStoryContext(story)
	base := BaseProgress(name)

	if err := s.runStage(ctx, ledger, s.byName[name], sc); err != nil {
		s.log.Error("Retry failed",
			zap.String("story_id", story.ID),
			zap.String("stage", string(name)),
			zap.Error(err))
		if story.Status != models.StatusComplete {
			ledger.MarkFailed(ctx, base, err)
		}
		return apperr.Wrap(apperr.Internal, err, "retry %s", name)
	}

	if story.Status != models.StatusComplete {
		if err := ledger.WriteProgress(ctx, models.StatusProcessing, base+retryBump, "Retried "+string(name)); err != nil {
			return apperr.Wrap(apperr.Internal, err, "write progress")
		}
	}
	return nil
}

func (s *Service) runStage(ctx context.Context, ledger *Ledger, st Stage, sc *models.StoryContext) error {
	started := time.Now()
	patch, err := st.Run(ctx, sc)
	if err != nil {
		return fmt.Errorf("%s stage: %w", st.Name(), err)
	}
	if err := ledger.Save(ctx, patch); err != nil {
		return fmt.Errorf("save %s output: %w", st.Name(), err)
	}
	sc.Apply(patch)
	s.log.Info("Stage finished",
		zap.String("story_id", sc.StoryID),
		zap.String("stage", string(st.Name())),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (s *Service) fail(ctx context.Context, ledger *Ledger, base float64, name models.Stage, cause error) error {
	s.log.Error("Pipeline failed",
		zap.String("story_id", ledger.StoryID()),
		zap.String("stage", string(name)),
		zap.Error(cause))
	ledger.MarkFailed(ctx, base, cause)
	return apperr.Wrap(apperr.Internal, cause, "generate story %s", ledger.StoryID())
}

func parseAccess(a models.Access) (models.Access, error) {
	switch models.Access(strings.ToLower(strings.TrimSpace(string(a)))) {
	case "", models.AccessPrivate:
		return models.AccessPrivate, nil
	case models.AccessPublic:
		return models.AccessPublic, nil
	default:
		return "", apperr.New(apperr.InvalidArgument, "access must be %q or %q", models.AccessPrivate, models.AccessPublic)
	}
}

// mergeVibe joins word lists, trimming blanks and dropping case-insensitive
// duplicates while keeping first-seen order.
func mergeVibe(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, w := range list {
			w = strings.TrimSpace(w)
			key := strings.ToLower(w)
			if w == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, w)
		}
	}
	return out
}
