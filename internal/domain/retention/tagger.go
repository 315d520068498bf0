package retention

import (
	"context"
	"log/slog"
)

// Tagger propagates the pseudonymous id into the dependent record
// collections, either by reference tagging (partial) or by deletion with
// financial carve-out (full).
type Tagger struct {
	records DependentRecordStore
}

func NewTagger(records DependentRecordStore) *Tagger {
	return &Tagger{records: records}
}

// TagReferences attaches the anonymous id to every dependent collection.
// Best-effort per collection: an unreachable collection is logged and
// reported as skipped, never fatal, because a later sweep can re-run the
// same tagging idempotently.
func (t *Tagger) TagReferences(ctx context.Context, userID, anonymousID string) []TagOutcome {
	outcomes := make([]TagOutcome, 0, len(AllCollections))
	for _, collection := range AllCollections {
		if err := t.records.TagByUser(ctx, collection, userID, anonymousID); err != nil {
			slog.Warn("reference tagging skipped", "collection", collection, "userId", userID, "err", err)
			outcomes = append(outcomes, TagOutcome{Collection: collection, SkipReason: err.Error()})
			continue
		}
		outcomes = append(outcomes, TagOutcome{Collection: collection, Tagged: true})
	}
	return outcomes
}

// PurgeOrAnonymize removes non-financial dependent records outright and
// routes financial collections through reference tagging, since financial
// retention is a legal requirement independent of the deletion reason.
// Deletions fail hard; financial tagging stays best-effort.
func (t *Tagger) PurgeOrAnonymize(ctx context.Context, userID, anonymousID string) ([]TagOutcome, error) {
	outcomes := make([]TagOutcome, 0, len(AllCollections))
	for _, collection := range AllCollections {
		if FinancialCollections[collection] {
			if err := t.records.TagByUser(ctx, collection, userID, anonymousID); err != nil {
				slog.Warn("financial reference tagging skipped", "collection", collection, "userId", userID, "err", err)
				outcomes = append(outcomes, TagOutcome{Collection: collection, SkipReason: err.Error()})
				continue
			}
			outcomes = append(outcomes, TagOutcome{Collection: collection, Tagged: true})
			continue
		}

		deleted, err := t.records.DeleteByUser(ctx, collection, userID)
		if err != nil {
			return outcomes, &StoreError{Op: "delete_" + collection, Err: err}
		}
		outcomes = append(outcomes, TagOutcome{Collection: collection, Deleted: deleted})
	}
	return outcomes, nil
}
