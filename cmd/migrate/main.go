package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS user_configs (
		user_id          text PRIMARY KEY,
		plan             text NOT NULL DEFAULT 'free',
		style            text NOT NULL DEFAULT 'witty',
		compliment_count integer NOT NULL DEFAULT 0,
		assigned_at      timestamptz NOT NULL DEFAULT now(),
		created_at       timestamptz NOT NULL DEFAULT now(),
		updated_at       timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS usage_events (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    text NOT NULL DEFAULT '',
		event_type text NOT NULL,
		success    boolean NOT NULL DEFAULT true,
		latency_ms integer NOT NULL DEFAULT 0,
		properties jsonb,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_events_user_created
		ON usage_events (user_id, created_at)`,
}

func main() {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			exitWithError(fmt.Errorf("statement %d failed: %w", i+1, err))
		}
	}

	fmt.Println("migrations applied")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
