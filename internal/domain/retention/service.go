package retention

import (
	"context"
	"log/slog"
	"time"

	"mpadmin/internal/domain/core"
	"mpadmin/internal/requestctx"
)

// Service is the deletion orchestrator: it coordinates the two-phase
// soft-delete + anonymize mutation, restoration, and the bulk variant.
type Service struct {
	users     UserStore
	executor  *Executor
	tagger    *Tagger
	scheduler *PurgeScheduler
	resolver  *Resolver
	audit     AuditSink

	// Throttle is the pause between bulk items, bounding load on the record
	// store. Zero disables the pause.
	Throttle time.Duration
}

func NewService(users UserStore, records DependentRecordStore, tasks PurgeTaskStore, resolver *Resolver, audit AuditSink) *Service {
	return &Service{
		users:     users,
		executor:  NewExecutor(users),
		tagger:    NewTagger(records),
		scheduler: NewPurgeScheduler(tasks),
		resolver:  resolver,
		audit:     audit,
	}
}

// Execute runs the graduated deletion for one user.
//
// Phase A soft-deletes the record; Phase B anonymizes personal fields, tags
// or removes dependent records, and schedules the purge. If Phase B fails the
// soft delete is reverted by a compensating write before the error surfaces,
// so "soft-deleted but not anonymized" is never a resting state. Phase A is
// durable before Phase B starts: a crash between phases leaves a detectable,
// recoverable record rather than a corrupted one.
func (s *Service) Execute(ctx context.Context, userID, reason, level, customReason string) (AnonymizationResult, error) {
	result := AnonymizationResult{UserID: userID, Level: level}

	if !ValidReason(reason) {
		return result, ErrUnknownReason
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return result, &StoreError{Op: "get_user", Err: err}
	}

	current := LevelNone
	if u.AnonymizationLevel != nil {
		current = *u.AnonymizationLevel
	}
	if err := ValidateTransition(current, level); err != nil {
		return result, err
	}

	deletionReason := reason
	if customReason != "" {
		deletionReason = customReason
	}

	now := time.Now().UTC()
	if err := s.users.Update(ctx, userID, map[string]any{
		"deleted_at":      now,
		"deletion_reason": deletionReason,
	}); err != nil {
		return result, &StoreError{Op: "soft_delete", Err: err}
	}

	result, phaseBErr := s.anonymize(ctx, u, reason, level, now)
	if phaseBErr != nil {
		if rbErr := s.rollbackSoftDelete(ctx, u); rbErr != nil {
			return result, &RollbackError{UserID: userID, Cause: phaseBErr, Rollback: rbErr}
		}
		s.emit(ctx, AuditDeletionRolledBack, userID, map[string]any{
			"reason": reason,
			"level":  level,
			"error":  phaseBErr.Error(),
		})
		result.Error = phaseBErr.Error()
		return result, phaseBErr
	}

	s.emit(ctx, AuditDeletionExecuted, userID, map[string]any{
		"reason":           reason,
		"level":            level,
		"anonymousId":      result.AnonymousID,
		"scheduledPurgeAt": result.ScheduledPurgeAt,
	})
	return result, nil
}

// anonymize is Phase B. Partial mid-phase side effects (collections already
// tagged) are idempotent and deliberately not rolled back.
func (s *Service) anonymize(ctx context.Context, u *core.User, reason, level string, now time.Time) (AnonymizationResult, error) {
	result := AnonymizationResult{UserID: u.ID, Level: level}

	fields, anonymousID, err := s.executor.Anonymize(ctx, u, now)
	if err != nil {
		return result, err
	}
	result.AnonymizedFields = fields
	result.AnonymousID = anonymousID

	switch level {
	case LevelPartial:
		s.tagger.TagReferences(ctx, u.ID, anonymousID)
	case LevelFull:
		if _, err := s.tagger.PurgeOrAnonymize(ctx, u.ID, anonymousID); err != nil {
			return result, err
		}
	}

	policy, err := s.resolver.Resolve(reason, level)
	if err != nil {
		return result, err
	}
	preservedUntil := now.AddDate(0, 0, policy.PreserveBusinessDataDays)
	purgeAt := now.AddDate(0, 0, policy.PurgeDelayDays)

	if _, err := s.scheduler.Schedule(ctx, u.ID, purgeAt, policy.Name); err != nil {
		return result, err
	}

	if err := s.users.Update(ctx, u.ID, map[string]any{
		"anonymization_level":  level,
		"preserved_data_until": preservedUntil,
		"scheduled_purge_at":   purgeAt,
	}); err != nil {
		return result, &StoreError{Op: "finalize_anonymization", Err: err}
	}

	result.Success = true
	result.PreservedDataUntil = &preservedUntil
	result.ScheduledPurgeAt = &purgeAt
	return result, nil
}

// rollbackSoftDelete restores the soft-delete fields to their pre-Phase-A
// values. For a first deletion that clears them; for an escalation of an
// already soft-deleted record it puts the original deletedAt and
// deletionReason back, so the prior deletion survives a failed escalation.
func (s *Service) rollbackSoftDelete(ctx context.Context, u *core.User) error {
	var deletedAt, deletionReason any
	if u.DeletedAt != nil {
		deletedAt = *u.DeletedAt
	}
	if u.DeletionReason != nil {
		deletionReason = *u.DeletionReason
	}
	return s.users.Update(ctx, u.ID, map[string]any{
		"deleted_at":      deletedAt,
		"deletion_reason": deletionReason,
	})
}

// Restore reverses a soft delete within the eligibility window. Anonymized
// business history stays anonymized; only the account's gating fields are
// cleared.
func (s *Service) Restore(ctx context.Context, userID string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return &StoreError{Op: "get_user", Err: err}
	}

	assessment := AssessRestorability(u, time.Now().UTC())
	if !assessment.Allowed {
		return &RestorationDeniedError{UserID: userID, Rationale: assessment.Rationale}
	}

	if err := s.users.Update(ctx, userID, map[string]any{
		"deleted_at":           nil,
		"deletion_reason":      nil,
		"anonymization_level":  nil,
		"anonymized_at":        nil,
		"preserved_data_until": nil,
		"scheduled_purge_at":   nil,
		"anonymous_id":         nil,
	}); err != nil {
		return &StoreError{Op: "restore_user", Err: err}
	}

	cancelled, err := s.scheduler.CancelPending(ctx, userID)
	if err != nil {
		return err
	}

	s.emit(ctx, AuditRestorationExecuted, userID, map[string]any{
		"outcome":        assessment.Outcome,
		"cancelledTasks": cancelled,
	})
	return nil
}

// DescribeRestorability is the read-only assessment shown to operators
// before they commit to a restore.
func (s *Service) DescribeRestorability(ctx context.Context, userID string) (Restorability, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return Restorability{}, &StoreError{Op: "get_user", Err: err}
	}
	return AssessRestorability(u, time.Now().UTC()), nil
}

func (s *Service) emit(ctx context.Context, action, userID string, details any) {
	if s.audit == nil {
		return
	}
	actorID := ""
	if op, ok := requestctx.GetOperator(ctx); ok {
		actorID = op.ID
	}
	if err := s.audit.Record(ctx, actorID, action, "user", userID, details); err != nil {
		slog.Warn("audit emit failed", "action", action, "userId", userID, "err", err)
	}
}
