package retention

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the pgx-backed implementation of DependentRecordStore and
// PurgeTaskStore.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// collectionTables maps collection names to their table and user-id column.
// Fixed set; unknown collections are an error, not a silent no-op.
var collectionTables = map[string]struct {
	table      string
	userColumn string
}{
	CollectionBookings:        {table: "bookings", userColumn: "user_id"},
	CollectionServiceRequests: {table: "service_requests", userColumn: "user_id"},
	CollectionReviews:         {table: "reviews", userColumn: "author_id"},
	CollectionPayments:        {table: "payments", userColumn: "user_id"},
	CollectionSubscriptions:   {table: "subscriptions", userColumn: "user_id"},
	CollectionProperties:      {table: "properties", userColumn: "owner_id"},
	CollectionNotifications:   {table: "notifications", userColumn: "user_id"},
}

func collectionTable(collection string) (string, string, error) {
	entry, ok := collectionTables[collection]
	if !ok {
		return "", "", fmt.Errorf("unknown collection %q", collection)
	}
	return entry.table, entry.userColumn, nil
}
