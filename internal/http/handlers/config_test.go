package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
)

type fakeConfigStore struct {
	configs map[string]*domain.UserConfig

	getErr   error
	mergeErr error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{configs: map[string]*domain.UserConfig{}}
}

func (s *fakeConfigStore) GetOrCreate(_ context.Context, userID string) (*domain.UserConfig, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if cfg, ok := s.configs[userID]; ok {
		out := *cfg
		return &out, nil
	}
	cfg := &domain.UserConfig{
		UserID:     userID,
		Plan:       domain.PlanFree,
		Style:      domain.PersonaWitty,
		AssignedAt: time.Now(),
	}
	s.configs[userID] = cfg
	out := *cfg
	return &out, nil
}

func (s *fakeConfigStore) MergeUpdate(_ context.Context, userID string, patch domain.ConfigPatch) (*domain.UserConfig, error) {
	if s.mergeErr != nil {
		return nil, s.mergeErr
	}
	cfg, ok := s.configs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Plan != nil {
		cfg.Plan = *patch.Plan
	}
	if patch.Style != nil {
		cfg.Style = *patch.Style
	}
	if patch.ComplimentCount != nil {
		cfg.ComplimentCount = *patch.ComplimentCount
	}
	out := *cfg
	return &out, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.ContextWithUserID(req.Context(), "anon-tester")
	return req.WithContext(ctx)
}

func TestConfigGetCreatesDefaults(t *testing.T) {
	store := newFakeConfigStore()
	app := &App{Store: store}

	rr := httptest.NewRecorder()
	app.ConfigGet(rr, authedRequest("GET", "/v1/config", ""))

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var cfg domain.UserConfig
	if err := json.NewDecoder(rr.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cfg.Plan != domain.PlanFree || cfg.Style != domain.PersonaWitty || cfg.ComplimentCount != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestConfigGetRequiresUserContext(t *testing.T) {
	app := &App{Store: newFakeConfigStore()}

	rr := httptest.NewRecorder()
	app.ConfigGet(rr, httptest.NewRequest("GET", "/v1/config", nil))

	if rr.Code != 401 {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestConfigMergeUpdatesFields(t *testing.T) {
	store := newFakeConfigStore()
	app := &App{Store: store}

	// Seed the document first.
	seed := httptest.NewRecorder()
	app.ConfigGet(seed, authedRequest("GET", "/v1/config", ""))

	rr := httptest.NewRecorder()
	app.ConfigMerge(rr, authedRequest("PATCH", "/v1/config", `{"complimentCount":2}`))

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var cfg domain.UserConfig
	if err := json.NewDecoder(rr.Body).Decode(&cfg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if cfg.ComplimentCount != 2 {
		t.Fatalf("complimentCount = %d, want 2", cfg.ComplimentCount)
	}
	if cfg.Plan != domain.PlanFree || cfg.Style != domain.PersonaWitty {
		t.Fatalf("untouched fields changed: %+v", cfg)
	}
}

func TestConfigMergeValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty patch", `{}`},
		{"bad plan", `{"plan":"enterprise"}`},
		{"unknown style", `{"style":"pirate"}`},
		{"negative count", `{"complimentCount":-1}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := &App{Store: newFakeConfigStore()}
			rr := httptest.NewRecorder()
			app.ConfigMerge(rr, authedRequest("PATCH", "/v1/config", tc.body))
			if rr.Code != 400 {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestConfigMergeMissingDocument(t *testing.T) {
	app := &App{Store: newFakeConfigStore()}

	rr := httptest.NewRecorder()
	app.ConfigMerge(rr, authedRequest("PATCH", "/v1/config", `{"plan":"pro"}`))

	if rr.Code != 404 {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
