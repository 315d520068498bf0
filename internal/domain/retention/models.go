package retention

import "time"

// AnonymizationResult reports one completed (or failed) anonymization
// attempt.
type AnonymizationResult struct {
	UserID             string     `json:"userId"`
	Level              string     `json:"level"`
	AnonymizedFields   []string   `json:"anonymizedFields"`
	AnonymousID        string     `json:"anonymousId,omitempty"`
	Success            bool       `json:"success"`
	Error              string     `json:"error,omitempty"`
	PreservedDataUntil *time.Time `json:"preservedDataUntil,omitempty"`
	ScheduledPurgeAt   *time.Time `json:"scheduledPurgeAt,omitempty"`
}

// PurgeTask schedules the physical removal of a user's remaining data. The
// engine creates and cancels tasks; an external executor consumes them.
type PurgeTask struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Scope        string    `json:"scope"`
	ScheduledFor time.Time `json:"scheduledFor"`
	PolicyName   string    `json:"policyName"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Policy is the retention timing for one (reason, level) pair. Day counts are
// added to the anonymization time by the caller; the resolver never reads the
// clock.
type Policy struct {
	Name                     string `json:"name"`
	PreserveBusinessDataDays int    `json:"preserveBusinessDataDays"`
	PurgeDelayDays           int    `json:"purgeDelayDays"`
	AuditRetentionDays       int    `json:"auditRetentionDays"`
}

// Restorability is StateGuard's verdict on whether a soft-deleted account can
// come back. The rationale is shown verbatim by the console UI.
type Restorability struct {
	Allowed   bool   `json:"allowed"`
	Outcome   string `json:"outcome"`
	Rationale string `json:"rationale"`
}

// Restorability outcomes.
const (
	RestoreDenied            = "denied"
	RestoreAllowedWithCaveat = "allowed_with_caveat"
	RestoreAllowedFull       = "allowed"
)

// TagOutcome records the per-collection result of a tagging or purge pass.
// Skipped collections carry the reason so callers can assert on the partial
// success shape instead of losing it to a swallowed error.
type TagOutcome struct {
	Collection string `json:"collection"`
	Tagged     bool   `json:"tagged"`
	Deleted    int64  `json:"deleted,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
}
