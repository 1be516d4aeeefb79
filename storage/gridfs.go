// Package storage keeps generated binary assets and serves them publicly.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"colorstory/apperr"
)

// GridFS stores assets in a MongoDB GridFS bucket. Objects are readable
// through Handler as soon as the upload completes.
type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFS(database *mongo.Database, bucketName, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket %s: %w", bucketName, err)
	}
	return &GridFS{bucket: bucket, baseURL: baseURL}, nil
}

func (g *GridFS) Store(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	if _, err := g.bucket.UploadFromStream(path, bytes.NewReader(data), opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return PublicURL(g.baseURL, path), nil
}

// Open returns the latest revision stored under path.
func (g *GridFS) Open(ctx context.Context, path string) ([]byte, string, error) {
	stream, err := g.bucket.OpenDownloadStreamByName(path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", fmt.Errorf("asset %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			contentType = v
		}
	}
	return data, contentType, nil
}

// PublicURL is the address Handler serves path under.
func PublicURL(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + AssetPrefix + strings.TrimPrefix(path, "/")
}
