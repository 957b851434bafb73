// Package main is the entry point for the property management API server.
// Shared database, row-level-security tenancy: every request runs on a
// connection bound to the request identity.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/domain/auth"
	v1 "github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/auth_repo"
	"github.com/hanibalsk/property-management-sub005/internal/isolation"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting property management server")

	// --- Database pool ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if acquireTimeout := getEnvDuration("DB_ACQUIRE_TIMEOUT", 0); acquireTimeout > 0 {
		poolCfg.AcquireTimeout = acquireTimeout
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	binder := postgres.NewBinder(pool)

	// Refuse to start with an isolation gap. A missing policy or protocol
	// function silently widens every query on that table.
	if err := verifyIsolation(ctx, binder); err != nil {
		log.Fatalw("isolation verification failed", "error", err)
	}
	log.Info("session protocol and policy coverage verified")

	// --- JWT Service ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	// --- Auth Service ---
	credStore := auth_repo.NewSystemCredentialStore(binder)
	authService := auth.NewService(credStore, jwtService)

	// --- Audit Service ---
	auditService, err := postgres.NewAuditService()
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:        pool,
		Binder:      binder,
		Logger:      log,
		JWTService:  jwtService,
		AuthService: authService,
		Audit:       auditService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func verifyIsolation(ctx context.Context, binder *postgres.Binder) error {
	gc, err := binder.BindSystem(ctx)
	if err != nil {
		return err
	}
	defer gc.Release(ctx)

	if err := postgres.VerifySessionProtocol(ctx, gc.Executor()); err != nil {
		return err
	}
	return postgres.VerifyCoverage(ctx, gc.Executor(), isolation.TableNames())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
