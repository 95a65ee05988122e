package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreviewResult is the outcome of one preview parse attempt, success or
// error. One document per temporary identifier, last write wins.
type PreviewResult struct {
	PreviewID    string                 `bson:"_id" json:"previewId"`
	Success      bool                   `bson:"success" json:"success"`
	ParsedData   map[string]interface{} `bson:"parsedData,omitempty" json:"parsedData,omitempty"`
	ErrorCode    string                 `bson:"errorCode,omitempty" json:"errorCode,omitempty"`
	ErrorMessage string                 `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
}

// PreviewStore persists preview parse results under their temporary id
type PreviewStore interface {
	WriteResult(ctx context.Context, result PreviewResult) error
}

// MongoPreviewStore implements PreviewStore on the "flare_previews" collection
type MongoPreviewStore struct {
	db *mongo.Database
}

// NewMongoPreviewStore creates a preview store backed by the given database
func NewMongoPreviewStore(db *mongo.Database) *MongoPreviewStore {
	return &MongoPreviewStore{db: db}
}

// WriteResult upserts the preview attempt's outcome
func (s *MongoPreviewStore) WriteResult(ctx context.Context, result PreviewResult) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result.CreatedAt = time.Now()

	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection("flare_previews").ReplaceOne(ctx, bson.M{"_id": result.PreviewID}, result, opts)
	if err != nil {
		return fmt.Errorf("failed to write preview result %s: %w", result.PreviewID, err)
	}

	return nil
}
