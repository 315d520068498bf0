package core

import "time"

// User is a marketplace account: a property owner, a service provider or a
// regular customer. The nullable retention fields stay NULL until the
// retention engine soft-deletes the account.
type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`

	DeletedAt          *time.Time `json:"deletedAt,omitempty"`
	DeletionReason     *string    `json:"deletionReason,omitempty"`
	AnonymizationLevel *string    `json:"anonymizationLevel,omitempty"`
	AnonymizedAt       *time.Time `json:"anonymizedAt,omitempty"`
	PreservedDataUntil *time.Time `json:"preservedDataUntil,omitempty"`
	ScheduledPurgeAt   *time.Time `json:"scheduledPurgeAt,omitempty"`
	AnonymousID        *string    `json:"anonymousId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	UserStatusActive  = "active"
	UserStatusDeleted = "deleted"
)

const (
	UserRoleCustomer = "customer"
	UserRoleProvider = "provider"
	UserRoleOwner    = "owner"
)
