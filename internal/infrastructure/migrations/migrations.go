package migrations

import (
	"context"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	domainRepos "realestate.backend/internal/domain/repositories"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/internal/infrastructure/repositories"
	"realestate.backend/pkg/logger"
)

var migrationsList = []*gormigrate.Migration{
	createAccountTables(),
	createProfileTables(),
	seedGroups(),
}

// RunMigrations applies every pending migration
func RunMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrationsList)
	if err := m.Migrate(); err != nil {
		logger.Error(context.Background(), "Could not migrate", zap.Error(err))
		return err
	}
	logger.Info(context.Background(), "Migrations ran successfully", zap.Int("count", len(migrationsList)))
	return nil
}

func createAccountTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "202610010001_create_account_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.Account{},
				&models.Group{},
				&models.AccountGroup{},
				&models.AccountStatusEvent{},
				&models.EmailVerification{},
				&models.PasswordReset{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				"password_resets", "email_verifications", "account_status_events",
				"account_groups", "groups", "accounts",
			)
		},
	}
}

func createProfileTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "202610010002_create_profile_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.BuyerProfile{},
				&models.SellerProfile{},
				&models.AgentProfile{},
				&models.DeveloperProfile{},
				&models.AdminProfile{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				"buyer_profiles", "seller_profiles", "agent_profiles",
				"developer_profiles", "admin_profiles",
			)
		},
	}
}

func seedGroups() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "202610010003_seed_groups",
		Migrate: func(tx *gorm.DB) error {
			return SeedGroups(context.Background(), repositories.NewGroupRepository(tx))
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DELETE FROM groups").Error
		},
	}
}

// SeedGroups creates or refreshes the five role groups. Safe to run repeatedly.
func SeedGroups(ctx context.Context, repo domainRepos.GroupRepository) error {
	for _, seed := range entities.DefaultGroups() {
		group := &entities.Group{
			Name:        seed.Role.GroupName(),
			Role:        seed.Role,
			Description: seed.Description,
			Permissions: seed.Permissions,
		}
		if err := repo.Upsert(ctx, group); err != nil {
			return fmt.Errorf("seed group %s: %w", group.Name, err)
		}
	}
	return nil
}
