package retention

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mpadmin/internal/domain/core"
)

// fieldKind selects the placeholder rule for one personal field. The mapping
// is exhaustive over the user's personal fields so every anonymization rule
// is spelled out here rather than falling back to a default.
type fieldKind int

const (
	kindEmail fieldKind = iota
	kindName
	kindCleared
)

type personalField struct {
	column string
	kind   fieldKind
}

var personalFields = []personalField{
	{column: "email", kind: kindEmail},
	{column: "first_name", kind: kindName},
	{column: "last_name", kind: kindName},
	{column: "phone", kind: kindCleared},
	{column: "avatar_url", kind: kindCleared},
}

const anonymizedDomain = "anonymized.local"

// placeholder returns the anonymized value for a field. Names keep a suffix
// of the anonymous id so operators can still trace a record; cleared fields
// become NULL.
func placeholder(f personalField, anonymousID string) any {
	switch f.kind {
	case kindEmail:
		return anonymousID + "@" + anonymizedDomain
	case kindName:
		return "Deleted-" + idSuffix(anonymousID)
	default:
		return nil
	}
}

func idSuffix(anonymousID string) string {
	if len(anonymousID) <= 8 {
		return anonymousID
	}
	return anonymousID[len(anonymousID)-8:]
}

// Executor rewrites the personal fields of a user record in place and
// assigns the stable pseudonymous id. It never touches dependent business
// records.
type Executor struct {
	users UserStore
}

func NewExecutor(users UserStore) *Executor {
	return &Executor{users: users}
}

// Anonymize replaces every personal field with its placeholder and persists
// the whole set plus anonymous_id and anonymized_at in one update, so a
// failing write leaves no partial field set behind.
//
// An anonymous id already assigned to the record is reused: escalating
// partial to full, or re-running partial, never allocates a second
// pseudonym.
func (e *Executor) Anonymize(ctx context.Context, u *core.User, now time.Time) ([]string, string, error) {
	anonymousID := ""
	if u.AnonymousID != nil && *u.AnonymousID != "" {
		anonymousID = *u.AnonymousID
	} else {
		anonymousID = uuid.NewString()
	}

	fields := map[string]any{
		"anonymous_id":  anonymousID,
		"anonymized_at": now,
	}
	anonymized := make([]string, 0, len(personalFields))
	for _, f := range personalFields {
		fields[f.column] = placeholder(f, anonymousID)
		anonymized = append(anonymized, f.column)
	}

	if err := e.users.Update(ctx, u.ID, fields); err != nil {
		return nil, "", &StoreError{Op: "anonymize_user", Err: err}
	}
	return anonymized, anonymousID, nil
}
