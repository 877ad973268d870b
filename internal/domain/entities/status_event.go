package entities

import (
	"time"

	"github.com/google/uuid"
)

// StatusAction names what caused a lifecycle transition
type StatusAction string

const (
	ActionRegistered      StatusAction = "registered"
	ActionEmailVerified   StatusAction = "email_verified"
	ActionSubmitted       StatusAction = "submitted_for_review"
	ActionApproved        StatusAction = "approved"
	ActionRejected        StatusAction = "rejected"
	ActionSuspended       StatusAction = "suspended"
	ActionRoleChanged     StatusAction = "role_changed"
	ActionInvited         StatusAction = "invited"
	ActionPasswordChanged StatusAction = "password_reset"
)

// StatusEvent is one row of an account's lifecycle history
type StatusEvent struct {
	ID         uuid.UUID     `json:"id"`
	AccountID  uuid.UUID     `json:"user_id"`
	ActorID    *uuid.UUID    `json:"actor_id,omitempty"`
	Action     StatusAction  `json:"action"`
	FromStatus AccountStatus `json:"from_status,omitempty"`
	ToStatus   AccountStatus `json:"to_status"`
	FromRole   Role          `json:"from_role,omitempty"`
	ToRole     Role          `json:"to_role"`
	Reason     string        `json:"reason,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewStatusEvent records the transition of account from (status, role) to its current state
func NewStatusEvent(a *Account, actor *uuid.UUID, action StatusAction, fromStatus AccountStatus, fromRole Role, reason string) *StatusEvent {
	return &StatusEvent{
		AccountID:  a.ID,
		ActorID:    actor,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   a.Status,
		FromRole:   fromRole,
		ToRole:     a.Role,
		Reason:     reason,
	}
}

// AccountToken is a single-use email verification or password reset token
type AccountToken struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"user_id"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Usable reports whether the token is unused and not expired at now
func (t *AccountToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
