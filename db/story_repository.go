package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"colorstory/apperr"
	"colorstory/models"
)

// StoryRepository persists stories in a MongoDB collection. Timestamps are
// assigned by the server with $currentDate.
type StoryRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewStoryRepository(coll *mongo.Collection, log *zap.Logger) *StoryRepository {
	return &StoryRepository{coll: coll, log: log}
}

// Create inserts story under its own id. The filter never matches an
// existing document, so a reused id surfaces as a duplicate key error.
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	doc, err := toDocument(story)
	if err != nil {
		return err
	}
	delete(doc, "_id")
	delete(doc, "createdAt")
	delete(doc, "updatedAt")

	filter := bson.M{"_id": story.ID, "createdAt": bson.M{"$exists": false}}
	update := bson.M{
		"$setOnInsert": doc,
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}
	_, err = r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("story %s already exists", story.ID)
	}
	if err != nil {
		return fmt.Errorf("create story %s: %w", story.ID, err)
	}
	return nil
}

// Get loads a story by id
func (r *StoryRepository) Get(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&story)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("story %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get story %s: %w", id, err)
	}
	return &story, nil
}

// Merge sets the non-nil fields of patch and refreshes updatedAt. Fields not
// named by the patch are preserved.
func (r *StoryRepository) Merge(ctx context.Context, id string, patch models.StoryPatch) error {
	fields, err := patchFields(patch)
	if err != nil {
		return err
	}

	update := bson.M{"$currentDate": bson.M{"updatedAt": true}}
	if len(fields) > 0 {
		update["$set"] = fields
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("merge story %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("story %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListByOwner retrieves an owner's stories, newest first
func (r *StoryRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Story, int64, error) {
	filter := bson.M{"ownerId": ownerID}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list stories: %w", err)
	}
	defer cursor.Close(ctx)

	stories := []models.Story{}
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, 0, fmt.Errorf("decode stories: %w", err)
	}
	return stories, total, nil
}

// CreateIndexes creates the indexes used by ownership lookups and variants
func (r *StoryRepository) CreateIndexes(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ownerId", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "variantOf", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		r.log.Warn("Failed to create story indexes", zap.Error(err))
	}
}

func toDocument(v any) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func patchFields(patch models.StoryPatch) (bson.M, error) {
	return toDocument(patch)
}
