package jobs

import (
	"context"
	"log/slog"
	"time"

	"mpadmin/internal/domain/retention"
)

// UserPurger finalizes a user record after its purge task comes due.
type UserPurger interface {
	Update(ctx context.Context, userID string, fields map[string]any) error
}

// Purger performs the physical purge the retention engine only schedules:
// it removes the remaining non-financial dependent rows, moves the user to
// the terminal purged level, and completes the task.
type Purger struct {
	tasks   retention.PurgeTaskStore
	records retention.DependentRecordStore
	users   UserPurger
}

func NewPurger(tasks retention.PurgeTaskStore, records retention.DependentRecordStore, users UserPurger) *Purger {
	return &Purger{tasks: tasks, records: records, users: users}
}

// Sweep processes every pending task due at now. Per-task failures are
// logged and skipped so one stuck user does not stall the sweep; the task
// stays pending and is retried on the next run.
func (p *Purger) Sweep(ctx context.Context, now time.Time) (int, error) {
	due, err := p.tasks.ListPending(ctx, now)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, task := range due {
		if err := p.purgeOne(ctx, task); err != nil {
			slog.Warn("purge task failed", "taskId", task.ID, "userId", task.UserID, "err", err)
			continue
		}
		purged++
	}
	return purged, nil
}

func (p *Purger) purgeOne(ctx context.Context, task retention.PurgeTask) error {
	for _, collection := range retention.AllCollections {
		if retention.FinancialCollections[collection] {
			continue
		}
		if _, err := p.records.DeleteByUser(ctx, collection, task.UserID); err != nil {
			return err
		}
	}

	if err := p.users.Update(ctx, task.UserID, map[string]any{
		"anonymization_level": retention.LevelPurged,
	}); err != nil {
		return err
	}

	if err := p.tasks.Complete(ctx, task.ID); err != nil {
		return err
	}

	slog.Info("purge task completed", "taskId", task.ID, "userId", task.UserID, "policy", task.PolicyName)
	return nil
}
