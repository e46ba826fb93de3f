package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"server/internal/domain"

	"github.com/rs/zerolog"
)

// Client talks to the API server and fills the controller's capability
// interfaces. Store operations report failure as a boolean so the session
// can degrade instead of crash; only generation returns a real error since
// its message is shown to the user verbatim.
type Client struct {
	baseURL   string
	http      *http.Client
	log       zerolog.Logger
	cachePath string

	token  string
	userID string
}

func New(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log,
		cachePath: defaultCachePath(),
	}
}

// defaultCachePath places the session token under the OS config directory.
// An empty path disables caching; identity still works, just without reuse
// across runs.
func defaultCachePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kindzap", "session.json")
}

type cachedSession struct {
	Token string `json:"token"`
}

func (c *Client) loadCachedToken() string {
	if c.cachePath == "" {
		return ""
	}
	raw, err := os.ReadFile(c.cachePath)
	if err != nil {
		return ""
	}
	var s cachedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s.Token
}

func (c *Client) saveCachedToken(token string) {
	if c.cachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o700); err != nil {
		c.log.Debug().Err(err).Msg("session cache dir")
		return
	}
	raw, _ := json.Marshal(cachedSession{Token: token})
	if err := os.WriteFile(c.cachePath, raw, 0o600); err != nil {
		c.log.Debug().Err(err).Msg("session cache write")
	}
}

// EnsureSignedIn resolves the anonymous identity for this device. A cached
// token from a previous run recovers the same user; otherwise the server
// mints a fresh one. The returned token is cached for next time.
func (c *Client) EnsureSignedIn(ctx context.Context) (string, error) {
	body, _ := json.Marshal(map[string]string{"token": c.loadCachedToken()})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/session/anonymous", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("session request failed: %s", resp.Status)
	}

	var out struct {
		UserID string `json:"user_id"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	c.token = out.Token
	c.userID = out.UserID
	c.saveCachedToken(out.Token)
	return out.UserID, nil
}

// UserID returns the identity resolved by EnsureSignedIn.
func (c *Client) UserID() string { return c.userID }

func (c *Client) authedJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetOrCreate loads the config document, creating defaults server-side on
// first access. Failure is a sentinel, not an error.
func (c *Client) GetOrCreate(ctx context.Context, _ string) (*domain.UserConfig, bool) {
	var cfg domain.UserConfig
	if err := c.authedJSON(ctx, http.MethodGet, "/v1/config", nil, &cfg); err != nil {
		c.log.Warn().Err(err).Msg("config load failed")
		return nil, false
	}
	return &cfg, true
}

// MergeUpdate writes only the patch's set fields.
func (c *Client) MergeUpdate(ctx context.Context, _ string, patch domain.ConfigPatch) bool {
	if err := c.authedJSON(ctx, http.MethodPatch, "/v1/config", patch, nil); err != nil {
		c.log.Warn().Err(err).Msg("config merge failed")
		return false
	}
	return true
}

// Generate calls the compliment proxy. A non-200 response carries a
// user-facing message in its error body; that message becomes the error text.
func (c *Client) Generate(ctx context.Context, userQuery, systemPrompt string) (string, error) {
	raw, _ := json.Marshal(map[string]string{
		"userQuery":    userQuery,
		"systemPrompt": systemPrompt,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/getCompliment", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return "", fmt.Errorf("%s", e.Error)
		}
		return "", fmt.Errorf("compliment request failed: %s", resp.Status)
	}

	var out struct {
		Compliment string `json:"compliment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Compliment, nil
}
