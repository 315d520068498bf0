package retention

import (
	"context"
	"time"
)

// BulkResult collects per-item outcomes of a bulk deletion pass.
type BulkResult struct {
	Results []AnonymizationResult `json:"results"`
	Errors  []BulkItemError       `json:"errors"`
}

// ExecuteMany drives Execute over the supplied ids sequentially, in caller
// order, with a fixed pause between items to bound load on the record store.
// A failing id does not stop the pass; failures are collected and raised once
// as a *BulkError after the full pass. Cancelling the context aborts the run
// at the next inter-item checkpoint and returns the partial result.
func (s *Service) ExecuteMany(ctx context.Context, userIDs []string, reason, level, customReason string) (BulkResult, error) {
	var out BulkResult

	for i, userID := range userIDs {
		if i > 0 && s.Throttle > 0 {
			if err := wait(ctx, s.Throttle); err != nil {
				return out, err
			}
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		result, err := s.Execute(ctx, userID, reason, level, customReason)
		if err != nil {
			out.Errors = append(out.Errors, BulkItemError{UserID: userID, Message: err.Error()})
			continue
		}
		out.Results = append(out.Results, result)
	}

	s.emit(ctx, AuditBulkDeletionExecuted, "", map[string]any{
		"reason":    reason,
		"level":     level,
		"requested": len(userIDs),
		"succeeded": len(out.Results),
		"failed":    len(out.Errors),
	})

	if len(out.Errors) > 0 {
		return out, &BulkError{Items: out.Errors}
	}
	return out, nil
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
