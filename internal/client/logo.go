package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/hiredesk/internal/logo"
)

// LogoClient resolves company logos through a keyed third-party API.
// Lookups are best effort: every failure yields an empty URL.
type LogoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      logo.Cache
	logger     *slog.Logger
}

// NewLogoClient creates a logo client. A nil cache disables caching.
func NewLogoClient(baseURL, apiKey string, cache logo.Cache, logger *slog.Logger) *LogoClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      cache,
		logger:     logger,
	}
}

// Lookup returns the logo URL for company, or "" when none could be found.
func (c *LogoClient) Lookup(ctx context.Context, company string) string {
	if c == nil || c.baseURL == "" || c.apiKey == "" || strings.TrimSpace(company) == "" {
		return ""
	}
	if c.cache != nil {
		if u, ok := c.cache.Get(ctx, company); ok {
			return u
		}
	}

	u, err := c.fetch(ctx, company)
	if err != nil {
		c.logger.Debug("logo lookup failed", "company", company, "err", err)
		return ""
	}
	if c.cache != nil {
		c.cache.Set(ctx, company, u)
	}
	return u
}

func (c *LogoClient) fetch(ctx context.Context, company string) (string, error) {
	q := url.Values{}
	q.Set("company", company)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/logo?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= 400 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var body struct {
		LogoURL string `json:"logo_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.LogoURL, nil
}
