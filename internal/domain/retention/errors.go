package retention

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownReason = errors.New("unknown deletion reason")
	ErrUnknownLevel  = errors.New("unknown anonymization level")
)

// TransitionError rejects an illegal anonymization level transition.
type TransitionError struct {
	Current   string
	Requested string
}

func (e *TransitionError) Error() string {
	current := e.Current
	if current == LevelNone {
		current = "none"
	}
	return fmt.Sprintf("illegal anonymization transition %s -> %s", current, e.Requested)
}

// StoreError wraps a persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// RollbackError reports the one state the engine cannot self-heal: Phase B
// failed and the compensating write that should have cleared the soft delete
// failed too. The record is left soft-deleted but not anonymized.
type RollbackError struct {
	UserID   string
	Cause    error
	Rollback error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("user %s: anonymization failed (%v) and soft-delete rollback also failed (%v); record left soft-deleted without anonymization", e.UserID, e.Cause, e.Rollback)
}

func (e *RollbackError) Unwrap() error { return e.Cause }

// RestorationDeniedError carries the StateGuard rationale for the UI.
type RestorationDeniedError struct {
	UserID    string
	Rationale string
}

func (e *RestorationDeniedError) Error() string {
	return fmt.Sprintf("restoration denied for user %s: %s", e.UserID, e.Rationale)
}

// BulkItemError is one failed item of a bulk deletion.
type BulkItemError struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// BulkError aggregates every per-item failure of a bulk run. Each item was
// still individually attempted; callers wanting per-item granularity should
// inspect the BulkResult instead.
type BulkError struct {
	Items []BulkItemError
}

func (e *BulkError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%s: %s", item.UserID, item.Message))
	}
	return fmt.Sprintf("bulk deletion finished with %d failed user(s): %s", len(e.Items), strings.Join(parts, "; "))
}
