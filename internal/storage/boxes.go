package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tabsyhq/tabsy-api/internal/flare"
)

// BoxStore merges parse results into durable box records. It only ever
// writes the OCR-owned field set; fields the box record owns
// independently (user-entered box number, location) are never touched.
type BoxStore interface {
	MergeParse(ctx context.Context, boxID string, parsed flare.ParsedFlareSheet) error
	WriteParseError(ctx context.Context, boxID string, message string) error
}

// MongoBoxStore implements BoxStore on the "boxes" collection
type MongoBoxStore struct {
	db *mongo.Database
}

// NewMongoBoxStore creates a box store backed by the given database
func NewMongoBoxStore(db *mongo.Database) *MongoBoxStore {
	return &MongoBoxStore{db: db}
}

// MergeParse writes the parsed flare fields into an existing box record.
// Box records are created by the app when the user registers a box; this
// store never creates or deletes them.
func (s *MongoBoxStore) MergeParse(ctx context.Context, boxID string, parsed flare.ParsedFlareSheet) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	winningTickets := parsed.WinningTickets()

	update := bson.M{
		"$set": bson.M{
			"boxName":         parsed.GameName,
			"pricePerTicket":  parsed.PricePerTicket,
			"winningTickets":  winningTickets,
			"startingTickets": parsed.TotalPrizeTokens,
			"lastUpdated":     now,
			"ocrProcessed":    true,
			"ocrProcessedAt":  now,
			"remainingPrizes": winningTickets,
			"prizeCounts":     parsed.PrizeCounts(),
		},
	}

	result, err := s.db.Collection("boxes").UpdateOne(ctx, bson.M{"_id": boxID}, update)
	if err != nil {
		return fmt.Errorf("failed to merge parse into box %s: %w", boxID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("box %s not found", boxID)
	}

	return nil
}

// WriteParseError marks the box with an explicit parse failure instead
// of silently leaving the record unchanged
func (s *MongoBoxStore) WriteParseError(ctx context.Context, boxID string, message string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"ocrProcessed": false,
			"ocrError":     message,
			"lastUpdated":  time.Now(),
		},
	}

	result, err := s.db.Collection("boxes").UpdateOne(ctx, bson.M{"_id": boxID}, update)
	if err != nil {
		return fmt.Errorf("failed to write parse error for box %s: %w", boxID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("box %s not found", boxID)
	}

	return nil
}
