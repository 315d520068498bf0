package retention

import (
	"time"

	"mpadmin/internal/domain/core"
)

// Restoration rationale strings, displayed verbatim by the console.
const (
	RationalePurged      = "data already purged, cannot restore"
	RationaleTerminal    = "account is in a terminal purged state"
	RationaleFull        = "personal data permanently anonymized, business data removed"
	RationalePartial     = "account reactivated; anonymized personal fields are not recoverable; business history preserved"
	RationaleSoftDeleted = "account soft-deleted only, full restoration possible"
)

// ValidateTransition enforces the forward-only level order. Accepted moves
// are none->partial, none->full and partial->full. Purged is terminal and
// never reachable through deletion requests; repeating the current level is
// not a forward move.
func ValidateTransition(current, requested string) error {
	currentRank, ok := levelRank[current]
	if !ok {
		return ErrUnknownLevel
	}
	if requested != LevelPartial && requested != LevelFull {
		return ErrUnknownLevel
	}
	if current == LevelPurged {
		return &TransitionError{Current: current, Requested: requested}
	}
	if levelRank[requested] <= currentRank {
		return &TransitionError{Current: current, Requested: requested}
	}
	return nil
}

// AssessRestorability decides whether a deleted account can be brought back
// at time now. The checks run in severity order: a passed purge date denies
// restoration no matter what level the record carries.
func AssessRestorability(u *core.User, now time.Time) Restorability {
	level := LevelNone
	if u.AnonymizationLevel != nil {
		level = *u.AnonymizationLevel
	}

	switch {
	case u.ScheduledPurgeAt != nil && u.ScheduledPurgeAt.Before(now):
		return Restorability{Outcome: RestoreDenied, Rationale: RationalePurged}
	case level == LevelPurged:
		return Restorability{Outcome: RestoreDenied, Rationale: RationaleTerminal}
	case level == LevelFull:
		return Restorability{Outcome: RestoreDenied, Rationale: RationaleFull}
	case level == LevelPartial:
		return Restorability{Allowed: true, Outcome: RestoreAllowedWithCaveat, Rationale: RationalePartial}
	default:
		return Restorability{Allowed: true, Outcome: RestoreAllowedFull, Rationale: RationaleSoftDeleted}
	}
}
