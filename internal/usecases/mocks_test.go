package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/pkg/redis"
	"realestate.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context, filter entities.AccountFilter, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	args := m.Called(ctx, filter, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Account), args.Get(1).(int64), args.Error(2)
}

// Mock AccountTokenRepository
type MockAccountTokenRepository struct {
	mock.Mock
}

func (m *MockAccountTokenRepository) Create(ctx context.Context, token *entities.AccountToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAccountTokenRepository) GetByToken(ctx context.Context, token string) (*entities.AccountToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AccountToken), args.Error(1)
}

func (m *MockAccountTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Upsert(ctx context.Context, group *entities.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetByRole(ctx context.Context, role entities.Role) (*entities.Group, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Group), args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Group), args.Error(1)
}

func (m *MockGroupRepository) SetAccountGroup(ctx context.Context, accountID, groupID uuid.UUID) error {
	args := m.Called(ctx, accountID, groupID)
	return args.Error(0)
}

func (m *MockGroupRepository) ListAccountGroups(ctx context.Context, accountID uuid.UUID) ([]*entities.Group, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Group), args.Error(1)
}

func (m *MockGroupRepository) CountMembers(ctx context.Context, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID uuid.UUID, pagination utils.PaginationParams) ([]*entities.Account, int64, error) {
	args := m.Called(ctx, groupID, pagination)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Account), args.Get(1).(int64), args.Error(2)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, role entities.Role) (*entities.Profile, error) {
	args := m.Called(ctx, accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Mock StatusEventRepository
type MockStatusEventRepository struct {
	mock.Mock
}

func (m *MockStatusEventRepository) Create(ctx context.Context, event *entities.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatusEventRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entities.StatusEvent, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StatusEvent), args.Error(1)
}

// Mock PasswordValidator
type MockPasswordValidator struct {
	mock.Mock
}

func (m *MockPasswordValidator) ValidatePassword(password string, personal ...string) error {
	args := m.Called(password, personal)
	return args.Error(0)
}

// Mock TokenRevoker
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error {
	args := m.Called(ctx, sessionID, data, expiration)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redis.SessionData), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// recordingNotifier captures notifications instead of mailing them
type recordingNotifier struct {
	welcomes      []uuid.UUID
	verifications []string
	statuses      []entities.StatusAction
	reasons       []string
	roleChanges   []entities.Role
	resets        []string
	passwordsSet  int
}

func (n *recordingNotifier) Welcome(_ context.Context, a *entities.Account, _ entities.Workflow) {
	n.welcomes = append(n.welcomes, a.ID)
}

func (n *recordingNotifier) VerificationEmail(_ context.Context, _ *entities.Account, token string) {
	n.verifications = append(n.verifications, token)
}

func (n *recordingNotifier) StatusChanged(_ context.Context, _ *entities.Account, action entities.StatusAction, reason string) {
	n.statuses = append(n.statuses, action)
	n.reasons = append(n.reasons, reason)
}

func (n *recordingNotifier) RoleChanged(_ context.Context, _ *entities.Account, previous entities.Role) {
	n.roleChanges = append(n.roleChanges, previous)
}

func (n *recordingNotifier) PasswordReset(_ context.Context, _ *entities.Account, token string) {
	n.resets = append(n.resets, token)
}

func (n *recordingNotifier) PasswordChanged(context.Context, *entities.Account) {
	n.passwordsSet++
}
