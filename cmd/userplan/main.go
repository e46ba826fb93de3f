package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
)

// userplan flips a user's plan from the operator side, bypassing the
// client-writable upgrade path.
func main() {
	var (
		idFlag    string
		planFlag  string
		resetFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, pro)")
	flag.BoolVar(&resetFlag, "reset-count", false, "reset complimentCount to 0")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	plan := domain.Plan(strings.TrimSpace(strings.ToLower(planFlag)))

	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	switch plan {
	case domain.PlanFree, domain.PlanPro:
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	store := repo.NewConfigRepository(infra.NewSQLRunner(pool, logger))

	patch := domain.ConfigPatch{Plan: &plan}
	if resetFlag {
		zero := 0
		patch.ComplimentCount = &zero
	}

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()

	cfg, err := store.MergeUpdate(updateCtx, userID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("no config document for user %q", userID))
		}
		exitWithError(fmt.Errorf("failed to update plan: %w", err))
	}

	fmt.Printf("User %s updated to plan %s\n", userID, cfg.Plan)
	fmt.Printf("style=%s complimentCount=%d\n", cfg.Style, cfg.ComplimentCount)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
