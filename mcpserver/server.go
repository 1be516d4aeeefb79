// Package mcpserver exposes the story pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"colorstory/models"
	"colorstory/pipeline"
)

// StoryService is the part of pipeline.Service the tools call.
type StoryService interface {
	GenerateStory(ctx context.Context, caller pipeline.Caller, in pipeline.StoryInput) (*pipeline.GenerateResult, error)
	GenerateVariant(ctx context.Context, caller pipeline.Caller, in pipeline.VariantInput) (*pipeline.VariantResult, error)
	RetryStep(ctx context.Context, caller pipeline.Caller, in pipeline.RetryInput) (*pipeline.RetryResult, error)
	GetStory(ctx context.Context, caller pipeline.Caller, id string) (*models.Story, error)
}

// Server acts for a single user fixed at startup. stdio has no per-call
// identity, so every tool call runs as that user.
type Server struct {
	stories StoryService
	caller  pipeline.Caller
	log     *zap.Logger
	mcp     *sdk.Server
}

func NewServer(stories StoryService, uid, version string, log *zap.Logger) *Server {
	s := &Server{
		stories: stories,
		caller:  pipeline.Caller{UID: uid},
		log:     log.With(zap.String("component", "mcp")),
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "colorstory",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
