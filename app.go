package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"colorstory/ai"
	"colorstory/config"
	"colorstory/db"
	"colorstory/logging"
	"colorstory/pipeline"
	"colorstory/storage"
)

// app is the wired service graph shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	service *pipeline.Service
	assets  storage.Source
	closers []func() error
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, err
	}
	if devMode {
		cfg.Dev = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	var (
		stories pipeline.StoryStore
		objects interface {
			pipeline.ObjectStore
			storage.Source
		}
	)
	if cfg.Dev {
		log.Warn("Running in dev mode with in-memory stores")
		stories = db.NewMemoryStories()
		objects = storage.NewMemory(cfg.Server.PublicBaseURL)
	} else {
		client, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)

		repo := db.NewStoryRepository(client.Collection(cfg.Mongo.StoriesCollection), log)
		repo.CreateIndexes(ctx)
		stories = repo

		bucket, err := storage.NewGridFS(client.Database(), cfg.Mongo.AssetsBucket, cfg.Server.PublicBaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		objects = bucket
	}

	opts := pipeline.Options{
		Stories: stories,
		Objects: objects,
		Logger:  log,
	}
	if err := configureProvider(ctx, cfg, &opts); err != nil {
		a.Close()
		return nil, err
	}

	svc, err := pipeline.NewService(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = svc
	a.assets = objects
	return a, nil
}

func configureProvider(ctx context.Context, cfg *config.Config, opts *pipeline.Options) error {
	provider := cfg.AI.Provider
	if cfg.Dev {
		provider = config.ProviderMock
	}

	switch provider {
	case config.ProviderGemini:
		g, err := ai.NewGemini(ctx, cfg.AI.Gemini.APIKey)
		if err != nil {
			return err
		}
		gc := cfg.AI.Gemini
		opts.Text, opts.Speech = g, g
		opts.TextModel, opts.ImageModel = gc.TextModel, gc.ImageModel
		opts.Voice = ai.Voice{Model: gc.SpeechModel, Name: gc.Voice}
	case config.ProviderOpenAI:
		o, err := ai.NewOpenAI(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.BaseURL)
		if err != nil {
			return err
		}
		oc := cfg.AI.OpenAI
		opts.Text, opts.Speech = o, o
		opts.TextModel, opts.ImageModel = oc.TextModel, oc.ImageModel
		opts.Voice = ai.Voice{Model: oc.SpeechModel, Name: oc.Voice}
	case config.ProviderMock:
		opts.Text, opts.Speech = ai.Mock{}, ai.Mock{}
		opts.TextModel, opts.ImageModel = "mock", "mock"
		opts.Voice = ai.Voice{Model: "mock"}
	default:
		return fmt.Errorf("unsupported ai provider: %s", provider)
	}
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Shutdown step failed", zap.Error(err))
		}
	}
	a.closers = nil
	_ = a.log.Sync()
}
