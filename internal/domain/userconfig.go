package domain

import "time"

// Plan enumerates billing plans.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// FreeQuota is the number of compliments a free-plan user may generate
// before the paywall is shown.
const FreeQuota = 3

// UserConfig is the per-user config document. Exactly one exists per user
// identifier, created lazily on first access.
type UserConfig struct {
	UserID          string     `json:"-"`
	Plan            Plan       `json:"plan"`
	Style           PersonaKey `json:"style"`
	ComplimentCount int        `json:"complimentCount"`
	AssignedAt      time.Time  `json:"assignedAt"`
}

// IsFree reports whether the config is on the free plan.
func (c UserConfig) IsFree() bool {
	return c.Plan == PlanFree
}

// ConfigPatch carries a partial update for a UserConfig. Nil fields are left
// untouched by the store; updates are field-level merges, never overwrites.
type ConfigPatch struct {
	Plan            *Plan       `json:"plan,omitempty"`
	Style           *PersonaKey `json:"style,omitempty"`
	ComplimentCount *int        `json:"complimentCount,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p ConfigPatch) Empty() bool {
	return p.Plan == nil && p.Style == nil && p.ComplimentCount == nil
}
