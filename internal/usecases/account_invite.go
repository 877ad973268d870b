package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/metrics"
	"realestate.backend/pkg/security"
)

// InviteAdminInput describes an administrator created out of band
type InviteAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

var adminPasswordPolicy PasswordValidator = security.StrictPasswordPolicy()

// InviteAdmin creates an approved, email-verified administrator. Admins cannot self-register.
func (u *AccountLifecycleUsecase) InviteAdmin(ctx context.Context, input *InviteAdminInput) (*entities.Account, error) {
	email := entities.NormalizeEmail(input.Email)
	if email == "" {
		return nil, domainerrors.Validation("Email is required")
	}
	_, err := u.accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.DuplicateEmail("A user with this email already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if err := adminPasswordPolicy.ValidatePassword(input.Password, email, firstName, lastName); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Email:           email,
		PasswordHash:    passwordHash,
		FirstName:       firstName,
		LastName:        lastName,
		Role:            entities.RoleAdmin,
		Status:          entities.AccountStatusApproved,
		IsEmailVerified: true,
		ApprovedAt:      null.TimeFrom(timeNow()),
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Create(txCtx, account); err != nil {
			if isDuplicate(err) {
				return domainerrors.DuplicateEmail("A user with this email already exists")
			}
			return err
		}
		if err := u.assignGroup(txCtx, account.ID, entities.RoleAdmin); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(account, nil, entities.ActionInvited, "", "", ""))
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(entities.ActionInvited), string(entities.RoleAdmin))
	logger.Info(ctx, "Admin account created", zap.String("account_id", account.ID.String()))
	_, _ = u.EnsureProfile(ctx, account)
	return account, nil
}
