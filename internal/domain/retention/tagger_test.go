package retention

import (
	"context"
	"errors"
	"testing"
)

func TestTagReferencesCoversAllCollections(t *testing.T) {
	records := newFakeRecordStore()
	tagger := NewTagger(records)

	outcomes := tagger.TagReferences(context.Background(), "u1", "anon-1")
	if len(outcomes) != len(AllCollections) {
		t.Fatalf("expected %d outcomes, got %d", len(AllCollections), len(outcomes))
	}
	for _, outcome := range outcomes {
		if !outcome.Tagged {
			t.Fatalf("expected %s to be tagged, skip reason %q", outcome.Collection, outcome.SkipReason)
		}
	}
	if len(records.tags) != len(AllCollections) {
		t.Fatalf("expected %d tag calls, got %d", len(AllCollections), len(records.tags))
	}
}

func TestTagReferencesSkipsUnreachableCollection(t *testing.T) {
	records := newFakeRecordStore()
	records.failCollections[CollectionReviews] = errors.New("reviews store unreachable")
	tagger := NewTagger(records)

	outcomes := tagger.TagReferences(context.Background(), "u1", "anon-1")

	var skipped []TagOutcome
	for _, outcome := range outcomes {
		if !outcome.Tagged {
			skipped = append(skipped, outcome)
		}
	}
	if len(skipped) != 1 {
		t.Fatalf("expected exactly one skipped collection, got %+v", skipped)
	}
	if skipped[0].Collection != CollectionReviews {
		t.Fatalf("expected reviews to be skipped, got %s", skipped[0].Collection)
	}
	if skipped[0].SkipReason == "" {
		t.Fatal("expected a skip reason")
	}
}

func TestPurgeOrAnonymizePreservesFinancialRecords(t *testing.T) {
	records := newFakeRecordStore()
	tagger := NewTagger(records)

	outcomes, err := tagger.PurgeOrAnonymize(context.Background(), "u1", "anon-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != len(AllCollections) {
		t.Fatalf("expected %d outcomes, got %d", len(AllCollections), len(outcomes))
	}

	for _, call := range records.deletes {
		if FinancialCollections[call.Collection] {
			t.Fatalf("financial collection %s must never be deleted", call.Collection)
		}
	}
	for _, call := range records.tags {
		if !FinancialCollections[call.Collection] {
			t.Fatalf("expected only financial collections to be tagged during full anonymization, got %s", call.Collection)
		}
	}
	if len(records.tags) != len(FinancialCollections) {
		t.Fatalf("expected %d financial taggings, got %d", len(FinancialCollections), len(records.tags))
	}
}

func TestPurgeOrAnonymizeFailsHardOnDeleteError(t *testing.T) {
	records := newFakeRecordStore()
	records.failCollections[CollectionBookings] = errors.New("bookings store down")
	tagger := NewTagger(records)

	_, err := tagger.PurgeOrAnonymize(context.Background(), "u1", "anon-1")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
