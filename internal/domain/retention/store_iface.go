package retention

import (
	"context"
	"time"

	"mpadmin/internal/domain/core"
)

// UserStore reads and partially updates user records. Update must apply all
// fields in a single statement so the anonymization write is atomic.
type UserStore interface {
	Get(ctx context.Context, userID string) (*core.User, error)
	Update(ctx context.Context, userID string, fields map[string]any) error
}

// DependentRecordStore mutates the per-collection record sets keyed by user
// id. Both operations are idempotent: re-tagging or re-deleting an already
// processed collection is safe.
type DependentRecordStore interface {
	TagByUser(ctx context.Context, collection, userID, anonymousID string) error
	DeleteByUser(ctx context.Context, collection, userID string) (int64, error)
}

// PurgeTaskStore owns the purge task table. ListPending and Complete are
// consumed by the external purge executor, not by the engine.
type PurgeTaskStore interface {
	Schedule(ctx context.Context, userID, scope string, scheduledFor time.Time, policyName string) (string, error)
	CancelPending(ctx context.Context, userID string) (int64, error)
	ListPending(ctx context.Context, now time.Time) ([]PurgeTask, error)
	Complete(ctx context.Context, taskID string) error
}

// AuditSink receives one structured event per orchestrator action. The
// engine emits; it does not persist audit entries itself.
type AuditSink interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, details any) error
}
