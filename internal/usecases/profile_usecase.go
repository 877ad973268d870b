package usecases

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/domain/repositories"
	"realestate.backend/pkg/logger"
)

// ProfileUsecase reads and updates the caller's role profile
type ProfileUsecase struct {
	uow         repositories.UnitOfWork
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	lifecycle   *AccountLifecycleUsecase
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	lifecycle *AccountLifecycleUsecase,
) *ProfileUsecase {
	return &ProfileUsecase{
		uow:         uow,
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		lifecycle:   lifecycle,
	}
}

// GetMyProfile returns the account and its role profile, creating the profile if missing
func (u *ProfileUsecase) GetMyProfile(ctx context.Context, accountID uuid.UUID) (*entities.ProfileResult, error) {
	account, err := u.lifecycle.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile, err := u.lifecycle.EnsureProfile(ctx, account)
	if err != nil {
		return nil, err
	}
	return &entities.ProfileResult{Account: account, Profile: profile}, nil
}

// UpdateMyProfile applies a partial update, recomputes completion and, once the
// profile is complete, submits approval-required accounts for review.
func (u *ProfileUsecase) UpdateMyProfile(ctx context.Context, accountID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileResult, error) {
	account, err := u.lifecycle.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile, err := u.lifecycle.EnsureProfile(ctx, account)
	if err != nil {
		return nil, err
	}

	accountChanged := applyAccountFields(account, input)
	if details := bytes.TrimSpace(input.Details); len(details) > 0 {
		if details[0] != '{' {
			return nil, domainerrors.Validation("details must be a JSON object")
		}
		if err := profile.MergeDetails(details); err != nil {
			return nil, domainerrors.Validation("Invalid profile details: " + err.Error())
		}
	}
	profile.Recalculate(account)

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if accountChanged {
			if err := u.accountRepo.Update(txCtx, account); err != nil {
				return err
			}
		}
		return u.profileRepo.Update(txCtx, profile)
	})
	if err != nil {
		return nil, err
	}

	result := &entities.ProfileResult{Account: account, Profile: profile}
	if shouldAutoSubmit(account, profile) {
		if _, err := u.lifecycle.submitForReview(ctx, account, profile); err != nil {
			logger.Info(ctx, "Automatic review submission skipped",
				zap.String("account_id", account.ID.String()),
				zap.Error(err),
			)
		} else {
			result.SubmittedForReview = true
		}
	}
	return result, nil
}

func shouldAutoSubmit(a *entities.Account, p *entities.Profile) bool {
	if !a.Role.RequiresApproval() || p.Role != a.Role || !p.ReadyForReview() {
		return false
	}
	return a.Status == entities.AccountStatusVerified || a.Status == entities.AccountStatusRejected
}

func applyAccountFields(a *entities.Account, input *entities.UpdateProfileInput) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v == nil {
			return
		}
		trimmed := strings.TrimSpace(*v)
		if *dst != trimmed {
			*dst = trimmed
			changed = true
		}
	}
	set(&a.FirstName, input.FirstName)
	set(&a.LastName, input.LastName)
	set(&a.Phone, input.Phone)
	set(&a.Address, input.Address)
	return changed
}
