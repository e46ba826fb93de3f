package repo

import (
	"context"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"

	"github.com/jackc/pgx/v5"
)

// ConfigRepositoryPG implements domain.ConfigStore backed by PostgreSQL.
type ConfigRepositoryPG struct {
	sql  infra.SQLExecutor
	pick func() domain.PersonaKey
}

// NewConfigRepository creates a new ConfigRepositoryPG. New documents get
// their style from domain.RandomFreePersona.
func NewConfigRepository(sql infra.SQLExecutor) *ConfigRepositoryPG {
	return &ConfigRepositoryPG{
		sql:  sql,
		pick: func() domain.PersonaKey { return domain.RandomFreePersona(nil) },
	}
}

// GetOrCreate inserts a default document if none exists, then reads whichever
// document won. The conditional insert makes the call idempotent: a second
// caller's random style pick is discarded by the conflict clause, so both
// callers observe the first document.
func (r *ConfigRepositoryPG) GetOrCreate(ctx context.Context, userID string) (*domain.UserConfig, error) {
	style := r.pick()
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertConfigIfAbsent, userID, string(style)); err != nil {
		return nil, fmt.Errorf("insert config: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSelectConfig, userID)
	return scanConfig(row)
}

// MergeUpdate writes only the fields present in patch. Absent fields are
// passed as NULL and kept by COALESCE, so concurrent unrelated-field writes
// cannot clobber each other.
func (r *ConfigRepositoryPG) MergeUpdate(ctx context.Context, userID string, patch domain.ConfigPatch) (*domain.UserConfig, error) {
	var planArg, styleArg *string
	if patch.Plan != nil {
		v := string(*patch.Plan)
		planArg = &v
	}
	if patch.Style != nil {
		v := string(*patch.Style)
		styleArg = &v
	}
	row := r.sql.QueryRow(ctx, sqlinline.QMergeConfig, userID, planArg, styleArg, patch.ComplimentCount)
	return scanConfig(row)
}

func scanConfig(row pgx.Row) (*domain.UserConfig, error) {
	var c domain.UserConfig
	if err := row.Scan(&c.UserID, &c.Plan, &c.Style, &c.ComplimentCount, &c.AssignedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

var _ domain.ConfigStore = (*ConfigRepositoryPG)(nil)
