package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/internal/infrastructure/repositories"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunMigrations_CreatesTablesAndSeedsGroups(t *testing.T) {
	db := openTestDB(t, "migrations_run")

	require.NoError(t, RunMigrations(db))
	for _, table := range []string{
		"accounts", "groups", "account_groups", "account_status_events",
		"email_verifications", "password_resets",
		"buyer_profiles", "seller_profiles", "agent_profiles", "developer_profiles", "admin_profiles",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	groups, err := repositories.NewGroupRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, len(entities.DefaultGroups()))

	// second run is a no-op
	require.NoError(t, RunMigrations(db))
	groups, err = repositories.NewGroupRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, len(entities.DefaultGroups()))
}

func TestSeedGroups_Idempotent(t *testing.T) {
	db := openTestDB(t, "migrations_seed")
	require.NoError(t, RunMigrations(db))
	repo := repositories.NewGroupRepository(db)

	require.NoError(t, SeedGroups(context.Background(), repo))
	require.NoError(t, SeedGroups(context.Background(), repo))

	agents, err := repo.GetByRole(context.Background(), entities.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAgent.GroupName(), agents.Name)
	assert.NotEmpty(t, agents.Permissions)
}
