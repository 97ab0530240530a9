package pouet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const (
	DefaultAPIBaseURL  = "https://api.pouet.net"
	DefaultSiteBaseURL = "https://www.pouet.net"
)

type Options struct {
	APIBaseURL  string
	SiteBaseURL string
	UserAgent   string
	// RateLimit is the number of requests per second sent to pouet.net.
	// Zero or less disables limiting.
	RateLimit float64
}

// Client talks to the pouet.net JSON API and the site's RSS exports.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	apiBaseURL  string
	siteBaseURL string
	userAgent   string
	parser      *CommentParser
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		httpClient:  httpClient,
		limiter:     limiter,
		apiBaseURL:  strings.TrimRight(orDefault(opts.APIBaseURL, DefaultAPIBaseURL), "/"),
		siteBaseURL: strings.TrimRight(orDefault(opts.SiteBaseURL, DefaultSiteBaseURL), "/"),
		userAgent:   opts.UserAgent,
		parser:      NewCommentParser(),
	}
}

// ProdURL is the human facing page of a prod.
func (c *Client) ProdURL(id string) string {
	return fmt.Sprintf("%s/prod.php?which=%s", c.siteBaseURL, url.QueryEscape(id))
}

func (c *Client) prodAPIURL(id string) string {
	return fmt.Sprintf("%s/v1/prod/?id=%s", c.apiBaseURL, url.QueryEscape(id))
}

func (c *Client) commentsURL(id string) string {
	return fmt.Sprintf("%s/export/lastprodcomments.rss.php?prod=%s", c.siteBaseURL, url.QueryEscape(id))
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
