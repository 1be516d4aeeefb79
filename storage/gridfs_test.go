package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"colorstory/apperr"
)

func TestGridFS(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("store uploads chunks then the file document", func(mt *mtest.T) {
		assets, err := NewGridFS(mt.DB, "assets", "https://cdn.example.com")
		require.NoError(mt, err)

		mt.AddMockResponses(
			// files collection already has documents, so no index creation
			mtest.CreateCursorResponse(0, "db.assets.files", mtest.FirstBatch, bson.D{{Key: "_id", Value: primitive.NewObjectID()}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		url, err := assets.Store(ctx, "stories/s1/hero.png", []byte("png-bytes"), "image/png")
		require.NoError(mt, err)
		assert.Equal(mt, "https://cdn.example.com/assets/stories/s1/hero.png", url)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)

		chunks := mt.GetStartedEvent()
		require.NotNil(mt, chunks)
		require.Equal(mt, "insert", chunks.CommandName)
		var chunkCmd struct {
			Insert    string `bson:"insert"`
			Documents []struct {
				N    int32            `bson:"n"`
				Data primitive.Binary `bson:"data"`
			} `bson:"documents"`
		}
		require.NoError(mt, bson.Unmarshal(chunks.Command, &chunkCmd))
		assert.Equal(mt, "assets.chunks", chunkCmd.Insert)
		require.Len(mt, chunkCmd.Documents, 1)
		assert.Equal(mt, []byte("png-bytes"), chunkCmd.Documents[0].Data.Data)

		files := mt.GetStartedEvent()
		require.NotNil(mt, files)
		require.Equal(mt, "insert", files.CommandName)
		var fileCmd struct {
			Insert    string `bson:"insert"`
			Documents []struct {
				Filename string `bson:"filename"`
				Length   int64  `bson:"length"`
				Metadata bson.M `bson:"metadata"`
			} `bson:"documents"`
		}
		require.NoError(mt, bson.Unmarshal(files.Command, &fileCmd))
		assert.Equal(mt, "assets.files", fileCmd.Insert)
		require.Len(mt, fileCmd.Documents, 1)
		assert.Equal(mt, "stories/s1/hero.png", fileCmd.Documents[0].Filename)
		assert.Equal(mt, int64(len("png-bytes")), fileCmd.Documents[0].Length)
		assert.Equal(mt, "image/png", fileCmd.Documents[0].Metadata["contentType"])
	})

	mt.Run("store honors a cancelled context", func(mt *mtest.T) {
		assets, err := NewGridFS(mt.DB, "assets", "")
		require.NoError(mt, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = assets.Store(cancelled, "a.svg", []byte("<svg/>"), "image/svg+xml")
		assert.ErrorIs(mt, err, context.Canceled)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("open reads the latest revision", func(mt *mtest.T) {
		assets, err := NewGridFS(mt.DB, "assets", "")
		require.NoError(mt, err)

		fileID := primitive.NewObjectID()
		data := []byte("mp3-bytes")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.assets.files", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: fileID},
				{Key: "length", Value: int64(len(data))},
				{Key: "chunkSize", Value: int32(255 * 1024)},
				{Key: "uploadDate", Value: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
				{Key: "filename", Value: "stories/s1/narration.mp3"},
				{Key: "metadata", Value: bson.D{{Key: "contentType", Value: "audio/mpeg"}}},
			}),
			mtest.CreateCursorResponse(0, "db.assets.chunks", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "files_id", Value: fileID},
				{Key: "n", Value: int32(0)},
				{Key: "data", Value: primitive.Binary{Data: data}},
			}),
		)

		got, contentType, err := assets.Open(ctx, "stories/s1/narration.mp3")
		require.NoError(mt, err)
		assert.Equal(mt, data, got)
		assert.Equal(mt, "audio/mpeg", contentType)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		var cmd struct {
			Filter bson.M `bson:"filter"`
			Sort   bson.D `bson:"sort"`
		}
		require.NoError(mt, bson.Unmarshal(find.Command, &cmd))
		assert.Equal(mt, bson.M{"filename": "stories/s1/narration.mp3"}, cmd.Filter)
		assert.Equal(mt, bson.D{{Key: "uploadDate", Value: int32(-1)}}, cmd.Sort)
	})

	mt.Run("open without metadata falls back to octet-stream", func(mt *mtest.T) {
		assets, err := NewGridFS(mt.DB, "assets", "")
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.assets.files", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "length", Value: int64(0)},
			{Key: "chunkSize", Value: int32(255 * 1024)},
			{Key: "filename", Value: "empty.bin"},
		}))

		got, contentType, err := assets.Open(ctx, "empty.bin")
		require.NoError(mt, err)
		assert.Empty(mt, got)
		assert.Equal(mt, "application/octet-stream", contentType)
	})

	mt.Run("open missing asset", func(mt *mtest.T) {
		assets, err := NewGridFS(mt.DB, "assets", "")
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.assets.files", mtest.FirstBatch))

		_, _, err = assets.Open(ctx, "missing.png")
		assert.ErrorIs(mt, err, apperr.ErrNotFound)
	})
}
