package domain

import "context"

// ConfigStore defines persistence for per-user config documents.
type ConfigStore interface {
	// GetOrCreate returns the existing config for userID, or creates and
	// returns a default one (free plan, random free style, zero count) if
	// none exists. It never overwrites an existing document.
	GetOrCreate(ctx context.Context, userID string) (*UserConfig, error)

	// MergeUpdate writes only the fields present in patch, preserving all
	// others, and returns the resulting document.
	MergeUpdate(ctx context.Context, userID string, patch ConfigPatch) (*UserConfig, error)
}
