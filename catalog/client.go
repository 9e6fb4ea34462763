package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// --- Constants ---
const (
	// DefaultBaseURL is the catalog's search domain. WARNING: this domain
	// might change/be blocked; it is overridable via Config.
	DefaultBaseURL = "https://libgen.li"

	// DefaultLanguage is the only result language kept by the row filter.
	DefaultLanguage = "english"

	// DefaultMaxPages bounds the paginated search; pages beyond it are
	// never requested even if the catalog keeps returning rows.
	DefaultMaxPages = 9

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config controls a Client. Zero values fall back to the package defaults.
type Config struct {
	BaseURL  string
	Language string
	MaxPages int
	Timeout  time.Duration
}

// Client performs searches against the catalog's paginated HTML endpoint.
// Construct it with NewClient; the zero value is not usable.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	maxPages   int
	log        zerolog.Logger
}

// NewClient builds a Client with a cookie jar and browser-like headers.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	// cookiejar.New only errors on a bad PublicSuffixList; nil never fails.
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: strings.ToLower(cfg.Language),
		maxPages: cfg.MaxPages,
		log:      logger,
	}
}

// get executes an HTTP GET with the shared client and common headers.
// The caller is responsible for closing the response body.
func (c *Client) get(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", urlStr, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed for %s: %w", urlStr, err)
	}
	return resp, nil
}
