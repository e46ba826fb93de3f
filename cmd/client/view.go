package main

import (
	"fmt"
	"io"
	"time"

	"server/internal/domain"
)

// upgradeRetryDelay is how long the upgrade control stays withdrawn after a
// failed plan write before the user is invited to retry.
const upgradeRetryDelay = 3 * time.Second

// terminalView renders controller output as plain lines on a terminal.
type terminalView struct {
	out io.Writer
}

func (v *terminalView) ShowStatus(cfg domain.UserConfig, degraded bool) {
	persona, ok := domain.LookupPersona(cfg.Style)
	style := string(cfg.Style)
	if ok {
		style = persona.DisplayName()
	}
	if cfg.IsFree() {
		remaining := domain.FreeQuota - cfg.ComplimentCount
		if remaining < 0 {
			remaining = 0
		}
		fmt.Fprintf(v.out, "[%s plan, style %s, %d free compliment(s) left]\n", cfg.Plan, style, remaining)
	} else {
		fmt.Fprintf(v.out, "[%s plan, style %s]\n", cfg.Plan, style)
	}
	if degraded {
		fmt.Fprintln(v.out, "(settings could not be loaded; using defaults for this session)")
	}
}

func (v *terminalView) ShowResult(text string) {
	fmt.Fprintln(v.out, text)
}

func (v *terminalView) ShowPaywall() {
	fmt.Fprintln(v.out, `You've used all your free compliments!
Upgrade to pro for unlimited compliments and premium styles.
Type /upgrade to upgrade or /close to dismiss.`)
}

func (v *terminalView) HidePaywall() {
	// Nothing to erase on a line-based terminal.
}

func (v *terminalView) ShowUpgradeError(msg string) {
	fmt.Fprintln(v.out, msg)
	// Restore the control later without holding up the input loop.
	time.AfterFunc(upgradeRetryDelay, func() {
		fmt.Fprintln(v.out, "You can try /upgrade again.")
	})
}

func (v *terminalView) SetBusy(busy bool) {
	if busy {
		fmt.Fprintln(v.out, "...")
	}
}
