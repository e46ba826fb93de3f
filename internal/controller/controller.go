package controller

import (
	"context"
	"strings"
	"time"

	"server/internal/domain"
	"server/internal/telemetry"

	"github.com/rs/zerolog"
)

// State names the controller's position in its lifecycle.
type State string

const (
	StateBooting    State = "booting"
	StateReady      State = "ready"
	StateGenerating State = "generating"
	StatePaywalled  State = "paywalled"
	StateErrored    State = "errored"
)

// Identity resolves a stable anonymous user identifier for this device.
type Identity interface {
	EnsureSignedIn(ctx context.Context) (string, error)
}

// ConfigStore is the controller's view of the remote config document. Both
// operations report failure as a boolean so an unreachable store degrades the
// session instead of crashing it.
type ConfigStore interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.UserConfig, bool)
	MergeUpdate(ctx context.Context, userID string, patch domain.ConfigPatch) bool
}

// Generator produces compliment text for a query under a persona prompt.
type Generator interface {
	Generate(ctx context.Context, userQuery, systemPrompt string) (string, error)
}

// View receives render instructions. The controller never touches output
// directly; any frontend implementing View can drive it.
type View interface {
	ShowStatus(cfg domain.UserConfig, degraded bool)
	ShowResult(text string)
	ShowPaywall()
	HidePaywall()
	// ShowUpgradeError reports a failed upgrade. The view is responsible for
	// restoring the upgrade control after its own fixed delay.
	ShowUpgradeError(msg string)
	SetBusy(busy bool)
}

// Session is the single owned state value. All mutation goes through the
// controller's transition methods.
type Session struct {
	State    State
	UserID   string
	Config   domain.UserConfig
	Degraded bool
}

const emptyQueryPrompt = "Please tell me a little something first!"

// Controller owns the session state machine. It is not safe for concurrent
// use; callers serialize interactions, mirroring a single-threaded event loop.
type Controller struct {
	identity  Identity
	store     ConfigStore
	generator Generator
	analytics telemetry.Client
	view      View
	log       zerolog.Logger

	session Session
}

func New(identity Identity, store ConfigStore, generator Generator, analytics telemetry.Client, view View, log zerolog.Logger) *Controller {
	if analytics == nil {
		analytics = telemetry.NewNoopClient()
	}
	return &Controller{
		identity:  identity,
		store:     store,
		generator: generator,
		analytics: analytics,
		view:      view,
		log:       log,
		session:   Session{State: StateBooting},
	}
}

// Session returns a copy of the current session state.
func (c *Controller) Session() Session {
	return c.session
}

// Boot resolves identity and loads the config document. Identity failure is
// fatal (errored, terminal); a store failure only degrades the session to
// built-in defaults with the action still available.
func (c *Controller) Boot(ctx context.Context) error {
	if c.session.State != StateBooting {
		return nil
	}

	userID, err := c.identity.EnsureSignedIn(ctx)
	if err != nil {
		c.session.State = StateErrored
		c.log.Error().Err(err).Msg("identity resolution failed")
		return err
	}
	c.session.UserID = userID

	if cfg, ok := c.store.GetOrCreate(ctx, userID); ok {
		c.session.Config = *cfg
	} else {
		c.session.Config = domain.UserConfig{
			UserID:     userID,
			Plan:       domain.PlanFree,
			Style:      domain.PersonaWitty,
			AssignedAt: time.Now(),
		}
		c.session.Degraded = true
		c.log.Warn().Str("user_id", userID).Msg("config store unreachable, using defaults")
	}

	c.analytics.Identify(userID, map[string]any{
		"plan":  string(c.session.Config.Plan),
		"style": string(c.session.Config.Style),
	})

	c.session.State = StateReady
	c.view.ShowStatus(c.session.Config, c.session.Degraded)
	return nil
}

// Generate runs one generation round trip. It is a no-op unless the session
// is ready, which also guards against a second request while one is in
// flight. An exhausted free quota shows the paywall instead of generating.
func (c *Controller) Generate(ctx context.Context, userQuery string) {
	if c.session.State != StateReady {
		return
	}

	// The quota gate comes before input validation: an exhausted free user
	// sees the paywall on any click, even with nothing typed.
	cfg := &c.session.Config
	if cfg.IsFree() && cfg.ComplimentCount >= domain.FreeQuota {
		c.session.State = StatePaywalled
		c.view.ShowPaywall()
		c.analytics.Capture(c.session.UserID, "paywall_viewed", map[string]any{
			"compliment_count": cfg.ComplimentCount,
		})
		return
	}

	if strings.TrimSpace(userQuery) == "" {
		c.view.ShowResult(emptyQueryPrompt)
		return
	}

	persona, ok := domain.LookupPersona(cfg.Style)
	if !ok {
		// Fail closed on a corrupt stored style rather than sending an
		// undefined prompt upstream.
		c.view.ShowResult("Sorry, an error occurred: " + domain.ErrUnknownPersona.Error())
		return
	}

	c.session.State = StateGenerating
	c.view.SetBusy(true)
	defer c.view.SetBusy(false)

	text, err := c.generator.Generate(ctx, userQuery, persona.SystemPrompt)
	if err != nil {
		c.view.ShowResult("Sorry, an error occurred: " + err.Error())
		c.session.State = StateReady
		return
	}

	c.view.ShowResult(text)
	if cfg.IsFree() {
		cfg.ComplimentCount++
		count := cfg.ComplimentCount
		if !c.store.MergeUpdate(ctx, c.session.UserID, domain.ConfigPatch{ComplimentCount: &count}) {
			c.log.Warn().Str("user_id", c.session.UserID).Msg("persisting compliment count failed")
		}
		c.view.ShowStatus(*cfg, c.session.Degraded)
	}
	c.analytics.Capture(c.session.UserID, "compliment_generated", map[string]any{
		"style": string(cfg.Style),
		"plan":  string(cfg.Plan),
	})
	c.session.State = StateReady
}

// Upgrade writes plan=pro and unlocks premium personas. Only reachable from
// the paywall. Idempotent when the session is already pro. On a failed write
// the plan stays free and the view restores the upgrade control on its own
// schedule.
func (c *Controller) Upgrade(ctx context.Context) {
	if c.session.State != StatePaywalled {
		return
	}

	if c.session.Config.Plan == domain.PlanPro {
		c.view.HidePaywall()
		c.session.State = StateReady
		return
	}

	c.view.SetBusy(true)
	defer c.view.SetBusy(false)

	pro := domain.PlanPro
	if !c.store.MergeUpdate(ctx, c.session.UserID, domain.ConfigPatch{Plan: &pro}) {
		// The view owns the delayed control restore; the loop stays live.
		c.view.ShowUpgradeError("Upgrade failed. Please try again.")
		return
	}

	c.session.Config.Plan = domain.PlanPro
	c.analytics.Capture(c.session.UserID, "upgrade_success", nil)
	c.analytics.Identify(c.session.UserID, map[string]any{"plan": string(domain.PlanPro)})
	c.view.HidePaywall()
	c.view.ShowStatus(c.session.Config, c.session.Degraded)
	c.session.State = StateReady
}

// ClosePaywall dismisses the paywall without upgrading.
func (c *Controller) ClosePaywall() {
	if c.session.State != StatePaywalled {
		return
	}
	c.view.HidePaywall()
	c.session.State = StateReady
}

// SelectStyle switches the active persona. Unknown keys fail closed and
// premium personas require the pro plan. The new style is persisted best
// effort; a store failure keeps the local selection.
func (c *Controller) SelectStyle(ctx context.Context, key domain.PersonaKey) error {
	if c.session.State != StateReady {
		return nil
	}
	if _, ok := domain.LookupPersona(key); !ok {
		return domain.ErrUnknownPersona
	}
	if domain.IsPremiumPersona(key) && c.session.Config.IsFree() {
		return domain.ErrPremiumLocked
	}

	c.session.Config.Style = key
	style := key
	if !c.store.MergeUpdate(ctx, c.session.UserID, domain.ConfigPatch{Style: &style}) {
		c.log.Warn().Str("user_id", c.session.UserID).Msg("persisting style failed")
	}
	c.view.ShowStatus(c.session.Config, c.session.Degraded)
	return nil
}
