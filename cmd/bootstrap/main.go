package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"realestate.backend/internal/config"
	"realestate.backend/internal/domain/entities"
	"realestate.backend/internal/infrastructure/datasources/postgres"
	"realestate.backend/internal/infrastructure/migrations"
	"realestate.backend/internal/infrastructure/notification"
	"realestate.backend/internal/infrastructure/repositories"
	"realestate.backend/internal/usecases"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/security"
)

// adminPasswordEnv lets the admin password stay out of shell history
const adminPasswordEnv = "BOOTSTRAP_ADMIN_PASSWORD"

var openBootstrapDB = postgres.NewConnection

var openBootstrapSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type bootstrapRuntime interface {
	Migrate() error
	SeedGroups(ctx context.Context) error
	InviteAdmin(ctx context.Context, input *usecases.InviteAdminInput) (*entities.Account, error)
}

type bootstrapDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	getenv  func(string) string
	prepare func(cfg *config.Config) (bootstrapRuntime, io.Closer, error)
	out     io.Writer
}

type bootstrapRuntimeImpl struct {
	db        *gorm.DB
	groups    *usecases.GroupUsecase
	lifecycle *usecases.AccountLifecycleUsecase
}

func (r bootstrapRuntimeImpl) Migrate() error {
	return migrations.RunMigrations(r.db)
}

func (r bootstrapRuntimeImpl) SeedGroups(ctx context.Context) error {
	return r.groups.SeedGroups(ctx)
}

func (r bootstrapRuntimeImpl) InviteAdmin(ctx context.Context, input *usecases.InviteAdminInput) (*entities.Account, error) {
	return r.lifecycle.InviteAdmin(ctx, input)
}

// directSender delivers mail inline; the CLI exits before a queue would drain.
type directSender struct {
	mailer notification.Mailer
}

func (s directSender) Send(ctx context.Context, msg notification.Message) bool {
	return s.mailer.Send(ctx, msg) == nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newBootstrapRuntime(cfg *config.Config, db *gorm.DB) (bootstrapRuntime, error) {
	renderer, err := notification.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	notifier := notification.NewNotifier(renderer, directSender{mailer: notification.NewMailer(cfg.SMTP)}, notification.NotifierConfig{
		Brand:           cfg.SMTP.FromName,
		FrontendURL:     cfg.Server.FrontendURL,
		VerificationTTL: cfg.Security.VerificationTokenTTL,
		ResetTTL:        cfg.Security.PasswordResetTTL,
	})

	uow := repositories.NewUnitOfWork(db)
	groupRepo := repositories.NewGroupRepository(db)
	lifecycle := usecases.NewAccountLifecycleUsecase(
		uow,
		repositories.NewAccountRepository(db),
		groupRepo,
		repositories.NewProfileRepository(db),
		repositories.NewStatusEventRepository(db),
		repositories.NewEmailVerificationRepository(db),
		security.DefaultPasswordPolicy(),
		notifier,
		cfg.Security.VerificationTokenTTL,
	)
	return bootstrapRuntimeImpl{
		db:        db,
		groups:    usecases.NewGroupUsecase(uow, groupRepo),
		lifecycle: lifecycle,
	}, nil
}

func defaultBootstrapDeps() bootstrapDeps {
	return bootstrapDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		getenv:  os.Getenv,
		prepare: func(cfg *config.Config) (bootstrapRuntime, io.Closer, error) {
			db, err := openBootstrapDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			sqlDB, err := openBootstrapSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			rt, err := newBootstrapRuntime(cfg, db)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
			return rt, sqlDB, nil
		},
		out: os.Stdout,
	}
}

type bootstrapFlags struct {
	skipMigrate    bool
	adminEmail     string
	adminPassword  string
	adminFirstName string
	adminLastName  string
}

func parseFlags(args []string, getenv func(string) string) (*bootstrapFlags, error) {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	f := &bootstrapFlags{}
	fs.BoolVar(&f.skipMigrate, "skip-migrate", false, "do not run schema migrations")
	fs.StringVar(&f.adminEmail, "admin-email", "", "create an administrator with this email (optional)")
	fs.StringVar(&f.adminPassword, "admin-password", "", "administrator password (or "+adminPasswordEnv+")")
	fs.StringVar(&f.adminFirstName, "admin-first-name", "Platform", "administrator first name")
	fs.StringVar(&f.adminLastName, "admin-last-name", "Admin", "administrator last name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f.adminEmail = strings.TrimSpace(f.adminEmail)
	if f.adminEmail == "" && f.adminPassword != "" {
		return nil, fmt.Errorf("--admin-password given without --admin-email")
	}
	if f.adminPassword == "" {
		f.adminPassword = getenv(adminPasswordEnv)
	}
	if f.adminEmail != "" && f.adminPassword == "" {
		return nil, fmt.Errorf("--admin-password or %s is required with --admin-email", adminPasswordEnv)
	}
	return f, nil
}

func runBootstrap(args []string, deps bootstrapDeps) error {
	def := defaultBootstrapDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.getenv == nil {
		deps.getenv = def.getenv
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	flags, err := parseFlags(args, deps.getenv)
	if err != nil {
		return err
	}

	cfg := deps.loadCfg()
	logger.Init(cfg.Server.Env)

	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	if !flags.skipMigrate {
		if err := runtime.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		_, _ = fmt.Fprintln(deps.out, "Migrations applied")
	}

	if err := runtime.SeedGroups(ctx); err != nil {
		return fmt.Errorf("failed to seed groups: %w", err)
	}
	_, _ = fmt.Fprintln(deps.out, "Role groups seeded")

	if flags.adminEmail == "" {
		return nil
	}

	account, err := runtime.InviteAdmin(ctx, &usecases.InviteAdminInput{
		Email:     flags.adminEmail,
		Password:  flags.adminPassword,
		FirstName: flags.adminFirstName,
		LastName:  flags.adminLastName,
	})
	if err != nil {
		return fmt.Errorf("failed creating admin %s: %w", flags.adminEmail, err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created ADMIN account")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", account.ID.String())
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", account.Email)
	_, _ = fmt.Fprintf(deps.out, "account_status=%s\n", account.Status)
	return nil
}

func main() {
	if err := runBootstrap(os.Args[1:], defaultBootstrapDeps()); err != nil {
		log.Fatal(err)
	}
}
