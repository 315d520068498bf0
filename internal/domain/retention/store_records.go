package retention

import (
	"context"
	"fmt"
)

// TagByUser stamps the anonymous id and an anonymized-at marker on every
// record of the collection still keyed by the user. Idempotent: already
// tagged rows match the WHERE clause and are simply rewritten with the same
// pseudonym.
func (s *Store) TagByUser(ctx context.Context, collection, userID, anonymousID string) error {
	table, userColumn, err := collectionTable(collection)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, fmt.Sprintf(`
    UPDATE %s
    SET anonymous_id = $1, anonymized_at = now()
    WHERE %s = $2
  `, table, userColumn), anonymousID, userID)
	return err
}

// DeleteByUser removes every record of the collection keyed by the user and
// reports the count. Idempotent: a repeated call deletes zero rows.
func (s *Store) DeleteByUser(ctx context.Context, collection, userID string) (int64, error) {
	table, userColumn, err := collectionTable(collection)
	if err != nil {
		return 0, err
	}
	tag, err := s.DB.Exec(ctx, fmt.Sprintf(`
    DELETE FROM %s
    WHERE %s = $1
  `, table, userColumn), userID)
	return tag.RowsAffected(), err
}
