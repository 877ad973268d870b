package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/internal/infrastructure/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

// newMigratedDB creates every table the repositories use
func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Group{},
		&models.AccountGroup{},
		&models.AccountStatusEvent{},
		&models.EmailVerification{},
		&models.PasswordReset{},
		&models.BuyerProfile{},
		&models.SellerProfile{},
		&models.AgentProfile{},
		&models.DeveloperProfile{},
		&models.AdminProfile{},
	))
	return db
}

func seedAccount(t *testing.T, repo *AccountRepository, email string, role entities.Role, status entities.AccountStatus) *entities.Account {
	t.Helper()
	a := &entities.Account{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "Account",
		Role:         role,
		Status:       status,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func seedGroup(t *testing.T, repo *GroupRepository, role entities.Role, perms ...string) *entities.Group {
	t.Helper()
	g := &entities.Group{Name: role.GroupName(), Role: role, Description: string(role), Permissions: perms}
	require.NoError(t, repo.Upsert(context.Background(), g))
	return g
}
