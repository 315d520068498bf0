package retention

// Deletion reasons. Immutable once recorded on a user; each maps to a fixed
// retention policy.
const (
	ReasonGDPRCompliance  = "gdpr_compliance"
	ReasonUserRequest     = "user_request"
	ReasonAdminAction     = "admin_action"
	ReasonPolicyViolation = "policy_violation"
)

// Anonymization levels, ordered none < partial < full < purged. The empty
// string stands for "none": a user that has not been soft-deleted carries no
// level at all.
const (
	LevelNone    = ""
	LevelPartial = "partial"
	LevelFull    = "full"
	LevelPurged  = "purged"
)

// Dependent record collections keyed by user id. Payments and subscriptions
// are financial: they are never deleted, only reference-tagged, regardless of
// the deletion reason.
const (
	CollectionBookings        = "bookings"
	CollectionServiceRequests = "service_requests"
	CollectionReviews         = "reviews"
	CollectionPayments        = "payments"
	CollectionSubscriptions   = "subscriptions"
	CollectionProperties      = "properties"
	CollectionNotifications   = "notifications"
)

// AllCollections lists every dependent collection in tagging order.
var AllCollections = []string{
	CollectionBookings,
	CollectionServiceRequests,
	CollectionReviews,
	CollectionPayments,
	CollectionSubscriptions,
	CollectionProperties,
	CollectionNotifications,
}

// FinancialCollections are preserved for legal retention.
var FinancialCollections = map[string]bool{
	CollectionPayments:      true,
	CollectionSubscriptions: true,
}

// Purge task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCancelled = "cancelled"
	TaskStatusDone      = "done"
)

// ScopeUserData is the purge task target scope: all remaining data for the
// user.
const ScopeUserData = "user_data"

// Audit actions emitted by the orchestrator.
const (
	AuditDeletionExecuted     = "deletion_executed"
	AuditDeletionRolledBack   = "deletion_rolled_back"
	AuditRestorationExecuted  = "restoration_executed"
	AuditBulkDeletionExecuted = "bulk_deletion_executed"
)

var validReasons = map[string]bool{
	ReasonGDPRCompliance:  true,
	ReasonUserRequest:     true,
	ReasonAdminAction:     true,
	ReasonPolicyViolation: true,
}

// levelRank orders levels for transition checks. Unknown strings rank below
// none and fail validation.
var levelRank = map[string]int{
	LevelNone:    0,
	LevelPartial: 1,
	LevelFull:    2,
	LevelPurged:  3,
}

func ValidReason(reason string) bool {
	return validReasons[reason]
}
