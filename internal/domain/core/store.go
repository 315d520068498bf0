package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
  id, email, first_name, last_name, phone, avatar_url, role, status,
  deleted_at, deletion_reason, anonymization_level, anonymized_at,
  preserved_data_until, scheduled_purge_at, anonymous_id,
  created_at, updated_at`

func (s *Store) Get(ctx context.Context, userID string) (*User, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, userID)

	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.AvatarURL, &u.Role, &u.Status,
		&u.DeletedAt, &u.DeletionReason, &u.AnonymizationLevel, &u.AnonymizedAt,
		&u.PreservedDataUntil, &u.ScheduledPurgeAt, &u.AnonymousID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// updatableColumns is the whitelist for partial updates. Personal fields and
// the retention lifecycle fields only; identity and audit timestamps are
// never written through this path.
var updatableColumns = map[string]bool{
	"email":                true,
	"first_name":           true,
	"last_name":            true,
	"phone":                true,
	"avatar_url":           true,
	"status":               true,
	"deleted_at":           true,
	"deletion_reason":      true,
	"anonymization_level":  true,
	"anonymized_at":        true,
	"preserved_data_until": true,
	"scheduled_purge_at":   true,
	"anonymous_id":         true,
}

// Update applies a partial field update in a single statement. Column names
// outside the whitelist are rejected before any SQL runs, so a bad caller
// cannot leave a half-written record behind.
func (s *Store) Update(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if !updatableColumns[name] {
			return fmt.Errorf("column %q is not updatable", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sets []string
	args := []any{userID}
	for _, name := range names {
		args = append(args, fields[name])
		sets = append(sets, fmt.Sprintf("%s = $%d", name, len(args)))
	}
	sets = append(sets, "updated_at = now()")

	tag, err := s.DB.Exec(ctx, fmt.Sprintf(`
    UPDATE users
    SET %s
    WHERE id = $1
  `, strings.Join(sets, ", ")), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
