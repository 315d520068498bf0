package retention

import (
	"context"
	"time"
)

// PurgeScheduler persists and cancels future purge tasks. The physical purge
// is the external executor's job.
type PurgeScheduler struct {
	tasks PurgeTaskStore
}

func NewPurgeScheduler(tasks PurgeTaskStore) *PurgeScheduler {
	return &PurgeScheduler{tasks: tasks}
}

func (s *PurgeScheduler) Schedule(ctx context.Context, userID string, scheduledFor time.Time, policyName string) (string, error) {
	taskID, err := s.tasks.Schedule(ctx, userID, ScopeUserData, scheduledFor, policyName)
	if err != nil {
		return "", &StoreError{Op: "schedule_purge", Err: err}
	}
	return taskID, nil
}

// CancelPending cancels every pending task for the user. Tasks already done
// stay done; the guard denies restoration in that case before this runs.
func (s *PurgeScheduler) CancelPending(ctx context.Context, userID string) (int64, error) {
	count, err := s.tasks.CancelPending(ctx, userID)
	if err != nil {
		return 0, &StoreError{Op: "cancel_purge", Err: err}
	}
	return count, nil
}
