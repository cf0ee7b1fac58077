// Package profile looks up admin scope assignments from the campus profile
// service. Lookups are best-effort: a failure leaves scope absent and the
// authorization gates deny elevated access conservatively.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Scope mirrors the profile service's scope payload for an admin subject.
type Scope struct {
	CollegeID  *string `json:"college_id"`
	Department *string `json:"department"`
}

// Client fetches scope assignments over HTTP with a hard timeout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient constructs a profile client. An empty base URL yields a client
// whose lookups always report absent scope.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "profile_client").Logger(),
	}
}

// LookupScope fetches the college/department assignment for a subject. All
// failures are reported as an empty scope with ok=false; callers must treat
// absent scope as a denial of elevated access rather than an error.
func (c *Client) LookupScope(ctx context.Context, subject string) (Scope, bool) {
	if c.baseURL == "" || subject == "" {
		return Scope{}, false
	}

	endpoint := fmt.Sprintf("%s/api/v1/profiles/%s/scope", c.baseURL, url.PathEscape(subject))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("subject", subject).Msg("failed to build profile request")
		return Scope{}, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("subject", subject).Msg("profile lookup failed")
		return Scope{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("subject", subject).Msg("profile lookup returned non-200")
		return Scope{}, false
	}

	var payload struct {
		Data Scope `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn().Err(err).Str("subject", subject).Msg("failed to decode profile response")
		return Scope{}, false
	}

	return payload.Data, true
}

// Ping probes the profile service for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	if c.baseURL == "" {
		return fmt.Errorf("profile service not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("profile service unhealthy: status %d", resp.StatusCode)
	}

	return nil
}
