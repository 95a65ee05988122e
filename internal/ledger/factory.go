// factory.go - Usage store selection

package ledger

import (
	"fmt"
	"log"

	"github.com/tabsyhq/tabsy-api/configs"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUsageStore builds the configured ledger backend. The Mongo
// database handle is only required for the "mongo" backend.
func CreateUsageStore(mongoDB *mongo.Database) (UsageStore, error) {
	switch configs.LEDGER_BACKEND {
	case "sqlite":
		log.Printf("🔵 Creating SQLite usage ledger at %s", configs.LEDGER_SQLITE_PATH)
		return NewSQLiteStore(configs.LEDGER_SQLITE_PATH)

	case "mongo":
		if mongoDB == nil {
			return nil, fmt.Errorf("mongo ledger backend requires a database connection")
		}
		log.Printf("🔷 Creating Mongo usage ledger")
		return NewMongoStore(mongoDB), nil

	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s (supported: sqlite, mongo)", configs.LEDGER_BACKEND)
	}
}
