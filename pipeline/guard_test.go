package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorstory/apperr"
	"colorstory/models"
)

func TestAuthorize(t *testing.T) {
	story := &models.Story{ID: "s1", OwnerID: "alice", Access: models.AccessPrivate}

	assert.NoError(t, Authorize(Caller{UID: "alice"}, story))
	assert.Equal(t, apperr.Unauthenticated, apperr.CodeOf(Authorize(Caller{UID: "  "}, story)))
	assert.Equal(t, apperr.PermissionDenied, apperr.CodeOf(Authorize(Caller{UID: "bob"}, story)))
}

func TestCanRead(t *testing.T) {
	story := &models.Story{ID: "s1", OwnerID: "alice", Access: models.AccessPublic}
	assert.NoError(t, CanRead(Caller{}, story))
	assert.NoError(t, CanRead(Caller{UID: "bob"}, story))

	story.Access = models.AccessPrivate
	assert.Equal(t, apperr.PermissionDenied, apperr.CodeOf(CanRead(Caller{UID: "bob"}, story)))
}

func TestParseStage(t *testing.T) {
	for _, name := range []string{"narration", "usage-guide", "hero", "audio"} {
		st, err := ParseStage(name)
		require.NoError(t, err)
		assert.Equal(t, models.Stage(name), st)
	}

	_, err := ParseStage("framing")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidArgument, apperr.CodeOf(err))
	assert.Equal(t, `unknown step "framing": must be one of narration, usage-guide, hero, audio`, err.Error())
}
