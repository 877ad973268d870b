package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/domain/repositories"
	"realestate.backend/pkg/crypto"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/metrics"
	"realestate.backend/pkg/utils"
)

const defaultVerificationTTL = 24 * time.Hour

// AccountLifecycleUsecase owns account status, role assignment and their side effects
type AccountLifecycleUsecase struct {
	uow             repositories.UnitOfWork
	accountRepo     repositories.AccountRepository
	groupRepo       repositories.GroupRepository
	profileRepo     repositories.ProfileRepository
	eventRepo       repositories.StatusEventRepository
	verifyRepo      repositories.AccountTokenRepository
	passwords       PasswordValidator
	notifier        AccountNotifier
	verificationTTL time.Duration
}

// NewAccountLifecycleUsecase creates a new account lifecycle usecase
func NewAccountLifecycleUsecase(
	uow repositories.UnitOfWork,
	accountRepo repositories.AccountRepository,
	groupRepo repositories.GroupRepository,
	profileRepo repositories.ProfileRepository,
	eventRepo repositories.StatusEventRepository,
	verifyRepo repositories.AccountTokenRepository,
	passwords PasswordValidator,
	notifier AccountNotifier,
	verificationTTL time.Duration,
) *AccountLifecycleUsecase {
	if verificationTTL <= 0 {
		verificationTTL = defaultVerificationTTL
	}
	return &AccountLifecycleUsecase{
		uow:             uow,
		accountRepo:     accountRepo,
		groupRepo:       groupRepo,
		profileRepo:     profileRepo,
		eventRepo:       eventRepo,
		verifyRepo:      verifyRepo,
		passwords:       passwords,
		notifier:        notifier,
		verificationTTL: verificationTTL,
	}
}

// Register creates an unverified account in the group of the requested role
func (u *AccountLifecycleUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.RegistrationResult, error) {
	if !input.TermsAccepted {
		return nil, domainerrors.Validation("You must accept the terms and conditions")
	}
	role := input.Role
	if role == "" {
		role = entities.RoleBuyer
	}
	if !role.SelfService() {
		return nil, domainerrors.Validation("Invalid user type. Admin accounts are invitation only")
	}

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
	if err := u.passwords.ValidatePassword(input.Password, email, firstName, lastName); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         role,
		Status:       entities.AccountStatusUnverified,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Create(txCtx, account); err != nil {
			if isDuplicate(err) {
				return domainerrors.DuplicateEmail("A user with this email already exists")
			}
			return err
		}
		if err := u.assignGroup(txCtx, account.ID, role); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(account, nil, entities.ActionRegistered, "", "", ""))
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(entities.ActionRegistered), string(role))
	logger.Info(ctx, "Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(role)),
	)

	// profile creation failures never fail the registration
	_, _ = u.EnsureProfile(ctx, account)

	workflow := entities.WorkflowForAccount(account, false)
	u.notifier.Welcome(ctx, account, workflow)
	u.sendVerification(ctx, account)

	return &entities.RegistrationResult{Account: account, Workflow: workflow}, nil
}

// ResendVerification issues a fresh verification token. Unknown or verified emails are ignored.
func (u *AccountLifecycleUsecase) ResendVerification(ctx context.Context, email string) error {
	account, err := u.accountRepo.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if account.IsEmailVerified {
		return nil
	}
	u.sendVerification(ctx, account)
	return nil
}

// VerifyEmail consumes a verification token and marks the account's email verified.
// Buyers become approved, approval-required roles move from unverified to verified.
func (u *AccountLifecycleUsecase) VerifyEmail(ctx context.Context, token string) (*entities.Account, error) {
	invalid := domainerrors.Validation("Invalid or expired verification token")

	record, err := u.verifyRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	account, err := u.accountRepo.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	now := timeNow()
	if !record.Usable(now) {
		if record.UsedAt != nil && account.IsEmailVerified {
			return account, nil
		}
		return nil, invalid
	}

	prevStatus := account.Status
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.verifyRepo.MarkUsed(txCtx, record.ID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return invalid
			}
			return err
		}
		if !applyEmailVerified(account, now) {
			return nil
		}
		if err := u.accountRepo.Update(txCtx, account); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(account, nil, entities.ActionEmailVerified, prevStatus, account.Role, ""))
	})
	if err != nil {
		return nil, err
	}

	if account.Status != prevStatus {
		metrics.RecordTransition(string(entities.ActionEmailVerified), string(account.Role))
		logger.Info(ctx, "Email verified",
			zap.String("account_id", account.ID.String()),
			zap.String("status", string(account.Status)),
		)
		if account.Status == entities.AccountStatusApproved {
			u.notifier.StatusChanged(ctx, account, entities.ActionApproved, "")
		}
	}
	return account, nil
}

// applyEmailVerified sets the verified flag and advances the status. It reports whether anything changed.
func applyEmailVerified(a *entities.Account, now time.Time) bool {
	changed := !a.IsEmailVerified
	a.IsEmailVerified = true

	switch {
	case a.Role.IsInstantAccess() &&
		(a.Status == entities.AccountStatusUnverified || a.Status == entities.AccountStatusVerified):
		a.Status = entities.AccountStatusApproved
		a.ApprovedAt = null.TimeFrom(now)
		changed = true
	case a.Role.RequiresApproval() && a.Status == entities.AccountStatusUnverified:
		a.Status = entities.AccountStatusVerified
		changed = true
	}
	return changed
}

// SubmitForReview moves a complete, verified profile into the admin review queue
func (u *AccountLifecycleUsecase) SubmitForReview(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	account, err := u.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile, err := u.profileRepo.GetByAccount(ctx, account.ID, account.Role)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Validation("Complete your profile before submitting it for review")
		}
		return nil, err
	}
	return u.submitForReview(ctx, account, profile)
}

func (u *AccountLifecycleUsecase) submitForReview(ctx context.Context, account *entities.Account, profile *entities.Profile) (*entities.Account, error) {
	if !account.Role.RequiresApproval() {
		return nil, domainerrors.Validation("This user type does not require review")
	}
	switch account.Status {
	case entities.AccountStatusPendingReview:
		return account, nil
	case entities.AccountStatusVerified, entities.AccountStatusRejected:
	default:
		return nil, domainerrors.Validation(fmt.Sprintf("Cannot submit for review while account is %s", account.Status))
	}
	if !account.IsEmailVerified {
		return nil, domainerrors.Validation("Verify your email before submitting for review")
	}
	profile.Recalculate(account)
	if !profile.ReadyForReview() {
		return nil, domainerrors.Validation("Profile must be 100% complete with all required documents uploaded")
	}

	prevStatus := account.Status
	account.Status = entities.AccountStatusPendingReview
	account.RejectionReason = null.String{}
	profile.VerificationStatus = entities.VerificationInReview

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Update(txCtx, account); err != nil {
			return err
		}
		if err := u.profileRepo.Update(txCtx, profile); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(account, nil, entities.ActionSubmitted, prevStatus, account.Role, ""))
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(entities.ActionSubmitted), string(account.Role))
	logger.Info(ctx, "Account submitted for review", zap.String("account_id", account.ID.String()))
	u.notifier.StatusChanged(ctx, account, entities.ActionSubmitted, "")
	return account, nil
}

// Decide applies an admin verdict (approve, reject or suspend) to a non-admin account
func (u *AccountLifecycleUsecase) Decide(ctx context.Context, adminID uuid.UUID, input *entities.DecisionInput) (*entities.Account, error) {
	admin, err := u.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	switch input.Action {
	case entities.DecisionApprove, entities.DecisionReject, entities.DecisionSuspend:
	default:
		return nil, domainerrors.Validation("Invalid action. Use approve, reject or suspend")
	}

	target, err := u.getAccount(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if target.Role == entities.RoleAdmin {
		return nil, domainerrors.PermissionDenied("Admin accounts cannot be approved, rejected or suspended")
	}
	reason := strings.TrimSpace(input.RejectionReason)
	if input.Action == entities.DecisionReject && reason == "" {
		return nil, domainerrors.Validation("Rejection reason is required when rejecting")
	}
	if input.Action == entities.DecisionApprove && target.Status == entities.AccountStatusApproved {
		return nil, domainerrors.AlreadyApproved("User is already approved")
	}

	now := timeNow()
	prevStatus := target.Status
	notes := strings.TrimSpace(input.Notes)
	action := applyDecision(target, admin.ID, input.Action, reason, notes, now)
	eventReason := reason
	if eventReason == "" {
		eventReason = notes
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Update(txCtx, target); err != nil {
			return err
		}
		if err := u.syncProfileVerification(txCtx, target, admin.ID, input.Action, notes, now); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(target, &admin.ID, action, prevStatus, target.Role, eventReason))
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(action), string(target.Role))
	logger.Info(ctx, "Account decision applied",
		zap.String("account_id", target.ID.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("action", string(action)),
		zap.String("from_status", string(prevStatus)),
	)
	u.notifier.StatusChanged(ctx, target, action, reason)
	return target, nil
}

func applyDecision(a *entities.Account, adminID uuid.UUID, decision entities.Decision, reason, notes string, now time.Time) entities.StatusAction {
	if notes != "" {
		a.ReviewNotes = null.StringFrom(notes)
	}
	switch decision {
	case entities.DecisionApprove:
		approver := adminID
		a.Status = entities.AccountStatusApproved
		a.ApprovedBy = &approver
		a.ApprovedAt = null.TimeFrom(now)
		a.RejectionReason = null.String{}
		return entities.ActionApproved
	case entities.DecisionReject:
		a.Status = entities.AccountStatusRejected
		a.RejectionReason = null.StringFrom(reason)
		a.ApprovedBy = nil
		a.ApprovedAt = null.Time{}
		return entities.ActionRejected
	default:
		a.Status = entities.AccountStatusSuspended
		return entities.ActionSuspended
	}
}

func (u *AccountLifecycleUsecase) syncProfileVerification(ctx context.Context, a *entities.Account, adminID uuid.UUID, decision entities.Decision, notes string, now time.Time) error {
	if decision == entities.DecisionSuspend {
		return nil
	}
	profile, err := u.profileRepo.GetByAccount(ctx, a.ID, a.Role)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if notes != "" {
		profile.VerificationNotes = null.StringFrom(notes)
	}
	if decision == entities.DecisionApprove {
		verifier := adminID
		profile.VerificationStatus = entities.VerificationVerified
		profile.VerifiedBy = &verifier
		profile.VerifiedAt = null.TimeFrom(now)
	} else {
		profile.VerificationStatus = entities.VerificationRejected
		profile.VerifiedBy = nil
		profile.VerifiedAt = null.Time{}
	}
	return u.profileRepo.Update(ctx, profile)
}

// ChangeRole moves an account to the single group of newRole
func (u *AccountLifecycleUsecase) ChangeRole(ctx context.Context, adminID uuid.UUID, input *entities.ChangeRoleInput) (*entities.Account, error) {
	admin, err := u.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !input.NewRole.Valid() {
		return nil, domainerrors.Validation("Invalid user type")
	}
	target, err := u.getAccount(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if target.ID == admin.ID {
		return nil, domainerrors.PermissionDenied("You cannot change your own user type")
	}
	if target.Role == input.NewRole {
		return nil, domainerrors.Validation("User already has this user type")
	}

	if input.NewRole == entities.RoleAdmin && !target.IsEmailVerified {
		return nil, domainerrors.Validation("Only accounts with a verified email can be promoted to admin")
	}

	prevRole, prevStatus := target.Role, target.Status
	target.Role = input.NewRole
	switch {
	case target.Role.RequiresApproval():
		target.Status = entities.AccountStatusPendingReview
	case target.Role == entities.RoleAdmin:
		// admins have no review step, promotion is the approval
		approver := admin.ID
		target.Status = entities.AccountStatusApproved
		target.ApprovedBy = &approver
		target.ApprovedAt = null.TimeFrom(timeNow())
		target.RejectionReason = null.String{}
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Update(txCtx, target); err != nil {
			return err
		}
		if err := u.assignGroup(txCtx, target.ID, target.Role); err != nil {
			return err
		}
		return u.eventRepo.Create(txCtx, entities.NewStatusEvent(target, &admin.ID, entities.ActionRoleChanged, prevStatus, prevRole, strings.TrimSpace(input.Reason)))
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(entities.ActionRoleChanged), string(target.Role))
	logger.Info(ctx, "Account role changed",
		zap.String("account_id", target.ID.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("from_role", string(prevRole)),
		zap.String("to_role", string(target.Role)),
	)
	u.notifier.RoleChanged(ctx, target, prevRole)
	return target, nil
}

// EnsureProfile returns the profile matching the account's role, creating it when absent.
// When that fails for a non-buyer role a buyer profile is used instead.
func (u *AccountLifecycleUsecase) EnsureProfile(ctx context.Context, a *entities.Account) (*entities.Profile, error) {
	profile, err := u.getOrCreateProfile(ctx, a, a.Role)
	if err == nil {
		return profile, nil
	}
	logger.Warn(ctx, "Failed to ensure role profile",
		zap.String("account_id", a.ID.String()),
		zap.String("role", string(a.Role)),
		zap.Error(err),
	)
	if a.Role == entities.RoleBuyer {
		return nil, err
	}

	profile, err = u.getOrCreateProfile(ctx, a, entities.RoleBuyer)
	if err != nil {
		logger.Error(ctx, "Failed to create fallback buyer profile",
			zap.String("account_id", a.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return profile, nil
}

func (u *AccountLifecycleUsecase) getOrCreateProfile(ctx context.Context, a *entities.Account, role entities.Role) (*entities.Profile, error) {
	profile, err := u.profileRepo.GetByAccount(ctx, a.ID, role)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	profile = entities.NewProfile(a.ID, role)
	profile.Recalculate(a)
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return u.profileRepo.GetByAccount(ctx, a.ID, role)
		}
		return nil, err
	}
	return profile, nil
}

// CheckPlatformAccess loads the account and refuses it when it cannot use the platform
func (u *AccountLifecycleUsecase) CheckPlatformAccess(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Account no longer exists")
		}
		return nil, err
	}
	if !account.CanAccessPlatform() {
		return nil, AccessDenial(account)
	}
	return account, nil
}

// CheckOnboardingAccess reloads the account behind an onboarding token. It passes while the account
// is still onboarding or has since gained platform access.
func (u *AccountLifecycleUsecase) CheckOnboardingAccess(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Account no longer exists")
		}
		return nil, err
	}
	if !account.Onboarding() && !account.CanAccessPlatform() {
		return nil, AccessDenial(account)
	}
	return account, nil
}

// isDuplicate matches a unique violation on the account email
func isDuplicate(err error) bool {
	return errors.Is(err, domainerrors.ErrAlreadyExists) || errors.Is(err, domainerrors.ErrDuplicateEmail)
}

// AccessDenial builds the refusal returned to an account that cannot access the platform
func AccessDenial(a *entities.Account) *domainerrors.AppError {
	var msg string
	switch a.Status {
	case entities.AccountStatusPendingReview:
		msg = "Your account is awaiting admin approval."
	case entities.AccountStatusRejected:
		msg = "Your account was rejected."
		if a.RejectionReason.Valid && a.RejectionReason.String != "" {
			msg = "Your account was rejected: " + a.RejectionReason.String
		}
	case entities.AccountStatusSuspended:
		msg = "Your account has been suspended."
	case entities.AccountStatusVerified:
		msg = "Please verify your email before logging in."
		if a.Role.RequiresApproval() {
			msg = "Complete your profile and submit it for review."
		}
	case entities.AccountStatusUnverified:
		msg = "Please verify your email before logging in."
	default:
		msg = "Your account cannot access the platform."
	}
	return domainerrors.AccountAccessDenied(msg, string(a.Status))
}

// AccountStatus describes where the account stands in its onboarding workflow
func (u *AccountLifecycleUsecase) AccountStatus(ctx context.Context, accountID uuid.UUID) (*entities.AccountStatusView, error) {
	account, err := u.getAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	view := &entities.AccountStatusView{
		Account:           account,
		CanAccessPlatform: account.CanAccessPlatform(),
		RequiresApproval:  account.Role.RequiresApproval(),
	}
	profile, err := u.profileRepo.GetByAccount(ctx, account.ID, account.Role)
	switch {
	case err == nil:
		view.ProfileCompletion = profile.CompletionPercent
		view.DocumentsUploaded = profile.DocumentsUploaded
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}
	view.Workflow = entities.WorkflowForAccount(account, view.DocumentsUploaded)

	perms, err := u.Permissions(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	view.Permissions = perms
	return view, nil
}

// Permissions returns the sorted permission codenames granted by the account's groups
func (u *AccountLifecycleUsecase) Permissions(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	groups, err := u.groupRepo.ListAccountGroups(ctx, accountID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	perms := []string{}
	for _, g := range groups {
		for _, p := range g.Permissions {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}
	sort.Strings(perms)
	return perms, nil
}

// CanAccessFeature reports whether the account may use the feature guarded by codename
func (u *AccountLifecycleUsecase) CanAccessFeature(ctx context.Context, accountID uuid.UUID, codename string) (bool, error) {
	account, err := u.getAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	if !account.CanAccessPlatform() {
		return false, nil
	}
	if account.Role == entities.RoleAdmin {
		return true, nil
	}
	groups, err := u.groupRepo.ListAccountGroups(ctx, account.ID)
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if g.HasPermission(codename) {
			return true, nil
		}
	}
	return false, nil
}

// History returns the lifecycle events of an account, oldest first
func (u *AccountLifecycleUsecase) History(ctx context.Context, accountID uuid.UUID) ([]*entities.StatusEvent, error) {
	if _, err := u.getAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return u.eventRepo.ListByAccount(ctx, accountID)
}

// ListAccounts lists accounts for the admin dashboard
func (u *AccountLifecycleUsecase) ListAccounts(ctx context.Context, filter entities.AccountFilter, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domainerrors.Validation("Invalid account status filter")
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, domainerrors.Validation("Invalid user type filter")
	}
	return u.accountRepo.List(ctx, filter, pagination)
}

// GetAccount gets an account by ID
func (u *AccountLifecycleUsecase) GetAccount(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	return u.getAccount(ctx, id)
}

func (u *AccountLifecycleUsecase) getAccount(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	account, err := u.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return account, nil
}

func (u *AccountLifecycleUsecase) requireAdmin(ctx context.Context, adminID uuid.UUID) (*entities.Account, error) {
	admin, err := u.accountRepo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("Account no longer exists")
		}
		return nil, err
	}
	if admin.Role != entities.RoleAdmin || !admin.CanAccessPlatform() {
		return nil, domainerrors.PermissionDenied("Only admins can perform this action")
	}
	return admin, nil
}

func (u *AccountLifecycleUsecase) assignGroup(ctx context.Context, accountID uuid.UUID, role entities.Role) error {
	group, err := u.groupRepo.GetByRole(ctx, role)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return fmt.Errorf("group for role %s is not seeded: %w", role, err)
		}
		return err
	}
	return u.groupRepo.SetAccountGroup(ctx, accountID, group.ID)
}

func (u *AccountLifecycleUsecase) sendVerification(ctx context.Context, a *entities.Account) {
	token, err := newVerificationToken()
	if err != nil {
		logger.Error(ctx, "Failed to generate verification token", zap.Error(err))
		return
	}
	record := &entities.AccountToken{
		AccountID: a.ID,
		Token:     token,
		ExpiresAt: timeNow().Add(u.verificationTTL),
	}
	if err := u.verifyRepo.Create(ctx, record); err != nil {
		logger.Error(ctx, "Failed to store verification token",
			zap.String("account_id", a.ID.String()),
			zap.Error(err),
		)
		return
	}
	u.notifier.VerificationEmail(ctx, a, token)
}
