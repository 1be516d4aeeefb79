package pipeline

import (
	"strings"

	"colorstory/apperr"
	"colorstory/models"
)

// Caller is the authenticated identity behind a request. An empty UID means
// the request carried no identity.
type Caller struct {
	UID string
}

func RequireIdentity(c Caller) error {
	if strings.TrimSpace(c.UID) == "" {
		return apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return nil
}

// Authorize allows only the story owner to mutate it.
func Authorize(c Caller, story *models.Story) error {
	if err := RequireIdentity(c); err != nil {
		return err
	}
	if story.OwnerID != c.UID {
		return apperr.New(apperr.PermissionDenied, "story %s belongs to another user", story.ID)
	}
	return nil
}

// CanRead allows anyone to read public stories and only the owner to read
// private ones.
func CanRead(c Caller, story *models.Story) error {
	if story.Access == models.AccessPublic {
		return nil
	}
	return Authorize(c, story)
}

// ParseStage validates a step name against the fixed stage set.
func ParseStage(name string) (models.Stage, error) {
	name = strings.TrimSpace(name)
	for _, st := range models.Stages {
		if string(st) == name {
			return st, nil
		}
	}
	names := make([]string, 0, len(models.Stages))
	for _, st := range models.Stages {
		names = append(names, string(st))
	}
	return "", apperr.New(apperr.InvalidArgument, "unknown step %q: must be one of %s", name, strings.Join(names, ", "))
}
