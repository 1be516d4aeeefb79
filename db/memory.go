package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"colorstory/apperr"
	"colorstory/models"
)

// MemoryStories is an in-process story store with the same merge semantics
// as StoryRepository. Documents are kept as bson so partial writes behave
// like $set.
type MemoryStories struct {
	mu   sync.Mutex
	docs map[string]bson.M
	now  func() time.Time
}

func NewMemoryStories() *MemoryStories {
	return &MemoryStories{
		docs: make(map[string]bson.M),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStories) Create(ctx context.Context, story *models.Story) error {
	doc, err := toDocument(story)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[story.ID]; exists {
		return fmt.Errorf("story %s already exists", story.ID)
	}
	now := m.now()
	doc["createdAt"] = now
	doc["updatedAt"] = now
	m.docs[story.ID] = doc
	return nil
}

func (m *MemoryStories) Get(ctx context.Context, id string) (*models.Story, error) {
	m.mu.Lock()
	doc, ok := m.docs[id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("story %s: %w", id, apperr.ErrNotFound)
	}
	data, err := bson.Marshal(doc)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("encode story %s: %w", id, err)
	}

	var story models.Story
	if err := bson.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("decode story %s: %w", id, err)
	}
	return &story, nil
}

func (m *MemoryStories) Merge(ctx context.Context, id string, patch models.StoryPatch) error {
	fields, err := patchFields(patch)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("story %s: %w", id, apperr.ErrNotFound)
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["updatedAt"] = m.now()
	return nil
}

func (m *MemoryStories) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Story, int64, error) {
	m.mu.Lock()
	var ids []string
	for id, doc := range m.docs {
		if doc["ownerId"] == ownerID {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	stories := make([]models.Story, 0, len(ids))
	for _, id := range ids {
		s, err := m.Get(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		stories = append(stories, *s)
	}
	sort.Slice(stories, func(i, j int) bool {
		if stories[i].UpdatedAt.Equal(stories[j].UpdatedAt) {
			return stories[i].ID < stories[j].ID
		}
		return stories[i].UpdatedAt.After(stories[j].UpdatedAt)
	})

	total := int64(len(stories))
	if offset >= len(stories) {
		return []models.Story{}, total, nil
	}
	end := len(stories)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return stories[offset:end], total, nil
}
