// Package main provides a CLI tool for applying migrations and seeding the
// database with initial data.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/domain/auth"
	"github.com/hanibalsk/property-management-sub005/internal/domain/membership"
	"github.com/hanibalsk/property-management-sub005/internal/domain/organization"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/auth_repo"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/migrate"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Migrations run over database/sql; goose manages its own versioning.
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalw("failed to open database", "error", err)
	}
	if err := migrate.Run(sqlDB); err != nil {
		log.Fatalw("migrations failed", "error", err)
	}
	_ = sqlDB.Close()
	log.Info("migrations applied")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	binder := postgres.NewBinder(pool)

	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@example.com")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD environment variable is required")
	}

	if err := seedAdmin(ctx, binder, adminEmail, adminPassword); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}
	log.Infow("admin user ready", "email", adminEmail)

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoOrg(ctx, binder); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
		log.Info("demo organization seeded")
	}
}

func seedAdmin(ctx context.Context, binder *postgres.Binder, email, password string) error {
	store := auth_repo.NewSystemCredentialStore(binder)

	if _, err := store.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	gc, err := binder.BindSystem(ctx)
	if err != nil {
		return err
	}
	defer gc.Release(ctx)

	return store.CreateUser(ctx, gc.Executor(), &auth.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "System Administrator",
		IsSuperAdmin: true,
	})
}

func seedDemoOrg(ctx context.Context, binder *postgres.Binder) error {
	gc, err := binder.BindSystem(ctx)
	if err != nil {
		return err
	}
	defer gc.Release(ctx)
	exec := gc.Executor()

	orgRepo := domain_repo.NewOrganizationRepo()
	org := &organization.Organization{Name: "Demo Property Management", Slug: "demo"}
	if err := orgRepo.CreateBound(ctx, exec, org); err != nil {
		if apperror.IsConflict(err) {
			return nil
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	store := auth_repo.NewSystemCredentialStore(binder)
	manager := &auth.User{
		Email:        "manager@demo.example.com",
		PasswordHash: string(hash),
		DisplayName:  "Demo Manager",
	}
	if err := store.CreateUser(ctx, exec, manager); err != nil {
		return err
	}

	memberRepo := domain_repo.NewMembershipRepo()
	return memberRepo.CreateBound(ctx, exec, &membership.Membership{
		OrgID:  org.ID,
		UserID: manager.ID,
		Role:   membership.RoleOwner,
	})
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
