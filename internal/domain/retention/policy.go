package retention

// Defaults are the configurable retention windows. The admin-action and
// policy-violation purge delays borrow these rather than citing a distinct
// legal basis, so deployments in other jurisdictions can adjust them without
// touching the resolver.
type Defaults struct {
	BusinessDataDays int
	AuditDataDays    int
	RetractionDays   int
}

// Resolver maps a deletion reason to retention timing. It is a stateless
// injected dependency: no package-level policy table, no clock access.
type Resolver struct {
	defaults Defaults
}

func NewResolver(defaults Defaults) *Resolver {
	return &Resolver{defaults: defaults}
}

// Resolve is total over valid (reason, level) pairs and deterministic.
// PurgeDelayDays counts from the moment anonymization completes:
//
//	gdpr_compliance   0     purge as soon as anonymization completes
//	user_request      30    statutory retraction window (configurable)
//	admin_action      1095  business window, kept for audit (configurable)
//	policy_violation  2555  audit window, the longest (configurable)
//
// The level does not change the timing today; it is part of the signature so
// the policy name records exactly what was applied.
func (r *Resolver) Resolve(reason, level string) (Policy, error) {
	if !ValidReason(reason) {
		return Policy{}, ErrUnknownReason
	}
	if level != LevelPartial && level != LevelFull {
		return Policy{}, ErrUnknownLevel
	}

	policy := Policy{
		Name:                     reason + ":" + level,
		PreserveBusinessDataDays: r.defaults.BusinessDataDays,
		AuditRetentionDays:       r.defaults.AuditDataDays,
	}

	switch reason {
	case ReasonGDPRCompliance:
		policy.PurgeDelayDays = 0
	case ReasonUserRequest:
		policy.PurgeDelayDays = r.defaults.RetractionDays
	case ReasonAdminAction:
		policy.PurgeDelayDays = r.defaults.BusinessDataDays
	case ReasonPolicyViolation:
		policy.PurgeDelayDays = r.defaults.AuditDataDays
	}
	return policy, nil
}
