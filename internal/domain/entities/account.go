package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AccountStatus is the lifecycle state of an account
type AccountStatus string

const (
	AccountStatusUnverified    AccountStatus = "unverified"
	AccountStatusVerified      AccountStatus = "verified"
	AccountStatusPendingReview AccountStatus = "pending_review"
	AccountStatusApproved      AccountStatus = "approved"
	AccountStatusRejected      AccountStatus = "rejected"
	AccountStatusSuspended     AccountStatus = "suspended"
)

// Valid reports whether s is a known status
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusUnverified, AccountStatusVerified, AccountStatusPendingReview,
		AccountStatusApproved, AccountStatusRejected, AccountStatusSuspended:
		return true
	}
	return false
}

// Account is a marketplace user. Email is the login identifier.
type Account struct {
	ID              uuid.UUID     `json:"id"`
	Email           string        `json:"email"`
	PasswordHash    string        `json:"-"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	Phone           string        `json:"phone,omitempty"`
	Address         string        `json:"address,omitempty"`
	Role            Role          `json:"role"`
	Status          AccountStatus `json:"account_status"`
	IsEmailVerified bool          `json:"is_email_verified"`
	ApprovedBy      *uuid.UUID    `json:"approved_by,omitempty"`
	ApprovedAt      null.Time     `json:"approved_at"`
	RejectionReason null.String   `json:"rejection_reason"`
	ReviewNotes     null.String   `json:"review_notes"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// FullName joins first and last name
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// CanAccessPlatform evaluates the access gate from the account's current state.
// The base buyer rule is a verified email alone. Suspension and rejection are also
// refused here so that suspending a buyer locks the account out like any other role.
// Every other role needs an approved account.
func (a *Account) CanAccessPlatform() bool {
	if a.Role.IsInstantAccess() {
		return a.IsEmailVerified &&
			a.Status != AccountStatusSuspended &&
			a.Status != AccountStatusRejected
	}
	return a.Status == AccountStatusApproved
}

// Onboarding reports whether an approval-required account may still work on its profile:
// email verified and in verified, rejected or pending_review.
func (a *Account) Onboarding() bool {
	if !a.Role.RequiresApproval() || !a.IsEmailVerified {
		return false
	}
	switch a.Status {
	case AccountStatusVerified, AccountStatusRejected, AccountStatusPendingReview:
		return true
	}
	return false
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	FirstName     string `json:"first_name" binding:"required,max=150"`
	LastName      string `json:"last_name" binding:"required,max=150"`
	Phone         string `json:"phone" binding:"omitempty,max=15"`
	Role          Role   `json:"user_type" binding:"omitempty,account_role"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// LoginInput represents input for account login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	SessionID    string   `json:"sessionId,omitempty"`
	Account      *Account `json:"user"`
	Profile      *Profile `json:"profile,omitempty"`
}

// RegistrationResult is returned to a freshly registered account
type RegistrationResult struct {
	Account  *Account `json:"user"`
	Workflow Workflow `json:"workflow"`
}

// AccountStatusView summarizes where an account stands in its workflow
type AccountStatusView struct {
	Account           *Account `json:"user"`
	CanAccessPlatform bool     `json:"can_access_platform"`
	RequiresApproval  bool     `json:"requires_approval"`
	Workflow          Workflow `json:"workflow"`
	Permissions       []string `json:"permissions"`
	ProfileCompletion int      `json:"profile_completion"`
	DocumentsUploaded bool     `json:"documents_uploaded"`
}

// Decision is an admin verdict on an account
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionSuspend Decision = "suspend"
)

// DecisionInput is the admin approval request body
type DecisionInput struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	Action          Decision  `json:"action" binding:"required,oneof=approve reject suspend"`
	Notes           string    `json:"notes"`
	RejectionReason string    `json:"rejection_reason"`
}

// ChangeRoleInput is the admin role change request body
type ChangeRoleInput struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	NewRole Role      `json:"new_user_type" binding:"required,account_role"`
	Reason  string    `json:"reason"`
}

// AccountFilter narrows admin account listings
type AccountFilter struct {
	Search string
	Status AccountStatus
	Role   Role
}

// PasswordResetRequestInput starts a password reset
type PasswordResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmInput completes a password reset
type PasswordResetConfirmInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}
