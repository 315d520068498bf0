package retention

import (
	"context"
	"time"
)

func (s *Store) Schedule(ctx context.Context, userID, scope string, scheduledFor time.Time, policyName string) (string, error) {
	var taskID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO purge_tasks (user_id, scope, scheduled_for, policy_name, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, userID, scope, scheduledFor, policyName, TaskStatusPending).Scan(&taskID)
	if err != nil {
		return "", err
	}
	return taskID, nil
}

func (s *Store) CancelPending(ctx context.Context, userID string) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE purge_tasks
    SET status = $1, updated_at = now()
    WHERE user_id = $2 AND status = $3
  `, TaskStatusCancelled, userID, TaskStatusPending)
	return tag.RowsAffected(), err
}

func (s *Store) ListPending(ctx context.Context, now time.Time) ([]PurgeTask, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, scope, scheduled_for, policy_name, status, created_at
    FROM purge_tasks
    WHERE status = $1 AND scheduled_for <= $2
    ORDER BY scheduled_for
  `, TaskStatusPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []PurgeTask
	for rows.Next() {
		var t PurgeTask
		if err := rows.Scan(&t.ID, &t.UserID, &t.Scope, &t.ScheduledFor, &t.PolicyName, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) Complete(ctx context.Context, taskID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE purge_tasks
    SET status = $1, updated_at = now()
    WHERE id = $2 AND status = $3
  `, TaskStatusDone, taskID, TaskStatusPending)
	return err
}
