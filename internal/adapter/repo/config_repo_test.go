package repo

import (
	"context"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/sqlinline"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeConfigSQL emulates the user_configs table for repository tests.
type fakeConfigSQL struct {
	docs map[string]*domain.UserConfig
}

func newFakeConfigSQL() *fakeConfigSQL {
	return &fakeConfigSQL{docs: map[string]*domain.UserConfig{}}
}

func (f *fakeConfigSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if query != sqlinline.QInsertConfigIfAbsent {
		return pgconn.CommandTag{}, nil
	}
	userID := args[0].(string)
	if _, ok := f.docs[userID]; ok {
		return pgconn.CommandTag{}, nil // conflict: keep the existing document
	}
	f.docs[userID] = &domain.UserConfig{
		UserID:     userID,
		Plan:       domain.PlanFree,
		Style:      domain.PersonaKey(args[1].(string)),
		AssignedAt: time.Now(),
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeConfigSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	userID := args[0].(string)
	doc, ok := f.docs[userID]
	if !ok {
		return fakeRow{}
	}
	if query == sqlinline.QMergeConfig {
		if plan, ok := args[1].(*string); ok && plan != nil {
			doc.Plan = domain.Plan(*plan)
		}
		if style, ok := args[2].(*string); ok && style != nil {
			doc.Style = domain.PersonaKey(*style)
		}
		if count, ok := args[3].(*int); ok && count != nil {
			doc.ComplimentCount = *count
		}
	}
	snapshot := *doc
	return fakeRow{doc: &snapshot}
}

func (f *fakeConfigSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

type fakeRow struct {
	doc *domain.UserConfig
}

func (r fakeRow) Scan(dest ...any) error {
	if r.doc == nil {
		return pgx.ErrNoRows
	}
	*(dest[0].(*string)) = r.doc.UserID
	*(dest[1].(*domain.Plan)) = r.doc.Plan
	*(dest[2].(*domain.PersonaKey)) = r.doc.Style
	*(dest[3].(*int)) = r.doc.ComplimentCount
	*(dest[4].(*time.Time)) = r.doc.AssignedAt
	return nil
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	sql := newFakeConfigSQL()
	r := NewConfigRepository(sql)

	// Force different picks per call so a re-roll would be visible.
	picks := []domain.PersonaKey{domain.PersonaWitty, domain.PersonaWholesome}
	r.pick = func() domain.PersonaKey {
		key := picks[0]
		picks = picks[1:]
		return key
	}

	first, err := r.GetOrCreate(context.Background(), "anon-1")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}
	if first.Plan != domain.PlanFree || first.ComplimentCount != 0 {
		t.Fatalf("unexpected defaults: %+v", first)
	}
	if first.Style != domain.PersonaWitty {
		t.Fatalf("expected first pick to stick, got %q", first.Style)
	}

	second, err := r.GetOrCreate(context.Background(), "anon-1")
	if err != nil {
		t.Fatalf("GetOrCreate() second call error: %v", err)
	}
	if second.Style != first.Style {
		t.Fatalf("style re-rolled on second call: %q != %q", second.Style, first.Style)
	}
}

func TestMergeUpdateCountPreservesOtherFields(t *testing.T) {
	sql := newFakeConfigSQL()
	r := NewConfigRepository(sql)

	created, err := r.GetOrCreate(context.Background(), "anon-2")
	if err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}

	count := 2
	updated, err := r.MergeUpdate(context.Background(), "anon-2", domain.ConfigPatch{ComplimentCount: &count})
	if err != nil {
		t.Fatalf("MergeUpdate() error: %v", err)
	}
	if updated.ComplimentCount != 2 {
		t.Fatalf("ComplimentCount = %d, want 2", updated.ComplimentCount)
	}
	if updated.Plan != created.Plan || updated.Style != created.Style || !updated.AssignedAt.Equal(created.AssignedAt) {
		t.Fatalf("merge touched unrelated fields: %+v vs %+v", updated, created)
	}
}

func TestMergeUpdatePlanUpgrade(t *testing.T) {
	sql := newFakeConfigSQL()
	r := NewConfigRepository(sql)

	if _, err := r.GetOrCreate(context.Background(), "anon-3"); err != nil {
		t.Fatalf("GetOrCreate() error: %v", err)
	}

	pro := domain.PlanPro
	updated, err := r.MergeUpdate(context.Background(), "anon-3", domain.ConfigPatch{Plan: &pro})
	if err != nil {
		t.Fatalf("MergeUpdate() error: %v", err)
	}
	if updated.Plan != domain.PlanPro {
		t.Fatalf("Plan = %q, want pro", updated.Plan)
	}
	if updated.ComplimentCount != 0 {
		t.Fatalf("ComplimentCount changed on plan upgrade: %d", updated.ComplimentCount)
	}
}

func TestMergeUpdateUnknownUser(t *testing.T) {
	r := NewConfigRepository(newFakeConfigSQL())

	count := 1
	if _, err := r.MergeUpdate(context.Background(), "nobody", domain.ConfigPatch{ComplimentCount: &count}); err != domain.ErrNotFound {
		t.Fatalf("MergeUpdate() error = %v, want ErrNotFound", err)
	}
}
