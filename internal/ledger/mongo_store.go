// mongo_store.go - MongoDB-backed daily usage store

package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usageCollection = "advisor_daily_usage"

// MongoStore keeps per-day advisory spend in MongoDB, for deployments
// where handler instances scale independently and a process-local file
// cannot be the shared counter. The $inc upsert is the atomic
// read-modify-write: concurrent increments on the same day document are
// serialized by the server, so no update is ever lost.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) Close() error {
	// Lifetime of the client is owned by the caller.
	return nil
}

func (m *MongoStore) AddUsage(ctx context.Context, dayKey string, costMicroUSD int64, requests int64) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("usage mongo: not initialized")
	}
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return fmt.Errorf("usage mongo: day key is required")
	}
	if costMicroUSD < 0 || requests < 0 {
		return fmt.Errorf("usage mongo: invalid deltas")
	}

	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.db.Collection(usageCollection).UpdateOne(opCtx,
		bson.M{"_id": dayKey},
		bson.M{
			"$inc": bson.M{
				"cost_micro_usd": costMicroUSD,
				"requests":       requests,
			},
			"$set": bson.M{"last_updated": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("usage mongo: add usage: %w", err)
	}
	return nil
}

func (m *MongoStore) DailyCostMicroUSD(ctx context.Context, dayKey string) (int64, error) {
	if m == nil || m.db == nil {
		return 0, fmt.Errorf("usage mongo: not initialized")
	}

	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record struct {
		CostMicroUSD int64 `bson:"cost_micro_usd"`
	}
	err := m.db.Collection(usageCollection).FindOne(opCtx, bson.M{"_id": strings.TrimSpace(dayKey)}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("usage mongo: daily cost: %w", err)
	}
	return record.CostMicroUSD, nil
}
