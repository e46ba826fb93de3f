package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"server/internal/client"
	"server/internal/controller"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	var serverURL string
	flag.StringVar(&serverURL, "server", envOr("KINDZAP_SERVER_URL", "http://localhost:8080"), "API server base URL")
	flag.Parse()

	logger := infra.NewLogger(envOr("APP_ENV", "development")).With().Str("cmd", "client").Logger()

	analytics, err := telemetry.NewPostHogClient(os.Getenv("POSTHOG_API_KEY"), os.Getenv("POSTHOG_ENDPOINT"))
	if err != nil {
		// Telemetry must never block the main flow.
		logger.Warn().Err(err).Msg("telemetry unavailable")
		analytics = telemetry.NewNoopClient()
	}
	defer analytics.Close()

	api := client.New(serverURL, logger)
	view := &terminalView{out: os.Stdout}
	ctrl := controller.New(api, api, api, analytics, view, logger)

	ctx := context.Background()
	if err := ctrl.Boot(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "could not start a session:", err)
		os.Exit(1)
	}

	fmt.Println(`Type a few words about your day and press enter for a compliment.
Commands: /styles, /style <name>, /upgrade, /close, /status, /quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case line == "/styles":
			printStyles(ctrl.Session().Config.Plan)
		case strings.HasPrefix(line, "/style "):
			key := domain.PersonaKey(strings.TrimSpace(strings.TrimPrefix(line, "/style ")))
			switch err := ctrl.SelectStyle(ctx, key); {
			case errors.Is(err, domain.ErrUnknownPersona):
				fmt.Println("No such style. Try /styles.")
			case errors.Is(err, domain.ErrPremiumLocked):
				fmt.Println("That style needs the pro plan. Generate past your free quota to see the upgrade offer.")
			}
		case line == "/upgrade":
			ctrl.Upgrade(ctx)
		case line == "/close":
			ctrl.ClosePaywall()
		case line == "/status":
			s := ctrl.Session()
			view.ShowStatus(s.Config, s.Degraded)
		default:
			ctrl.Generate(ctx, line)
		}
	}
}

func printStyles(plan domain.Plan) {
	for _, key := range domain.PersonaKeys() {
		p, _ := domain.LookupPersona(key)
		label := p.DisplayName()
		if p.Premium && plan != domain.PlanPro {
			label += " (pro)"
		}
		fmt.Printf("  %-12s %s\n", key, label)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
