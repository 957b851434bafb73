// Package main is a CI gate verifying row-level-security coverage. It
// exits nonzero when the session protocol functions are missing or any
// protected table lost its enforced policies, so a schema change cannot
// ship with an isolation gap.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	// Registers the legacy call sites reported below.
	_ "github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
	"github.com/hanibalsk/property-management-sub005/internal/isolation"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(2)
	}
	defer pool.Close()

	gc, err := postgres.NewBinder(pool).BindSystem(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bind: %v\n", err)
		os.Exit(2)
	}
	defer gc.Release(ctx)

	failed := false

	if err := postgres.VerifySessionProtocol(ctx, gc.Executor()); err != nil {
		fmt.Fprintf(os.Stderr, "session protocol: %v\n", err)
		failed = true
	}

	if err := postgres.VerifyCoverage(ctx, gc.Executor(), isolation.TableNames()); err != nil {
		fmt.Fprintf(os.Stderr, "policy coverage: %v\n", err)
		failed = true
	}

	if sites := postgres.LegacyCallSites(); len(sites) > 0 {
		fmt.Printf("legacy call sites remaining: %d\n", len(sites))
		for _, site := range sites {
			fmt.Printf("  %s\n", site)
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("row-level security verified")
}
