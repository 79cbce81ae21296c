package verify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/util"
	"github.com/veracitylab/veracity/internal/worker"
)

// URLChecker performs best-effort reachability checks for cited URLs.
// A check never returns an error to the caller: any failure is reported
// as unverified with an explanatory snippet, because URL checks must
// not abort a verdict.
type URLChecker struct {
	httpClient    *http.Client
	limiter       *worker.Limiter
	robots        *util.RobotsChecker
	userAgent     string
	respectRobots bool
}

// NewURLChecker creates a checker with a short timeout, per-host rate
// limiting, and optional robots.txt compliance.
func NewURLChecker(cfg model.HTTPConfig, timeout time.Duration) *URLChecker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "Veracity/0.1 (+https://github.com/veracitylab/veracity)"
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(userAgent, timeout)
	}

	return &URLChecker{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:       worker.NewLimiter(cfg.RequestsPerHost, cfg.Burst),
		robots:        robots,
		userAgent:     userAgent,
		respectRobots: cfg.RespectRobots,
	}
}

// IsURL reports whether s starts with an HTTP or HTTPS scheme.
func IsURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Check issues a HEAD request and reports whether the URL answered 200.
// The snippet carries the status or the failure reason.
func (c *URLChecker) Check(ctx context.Context, rawURL string) (bool, string) {
	if c.respectRobots && c.robots != nil && !c.robots.IsAllowed(ctx, rawURL) {
		return false, "blocked by robots.txt"
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return false, fmt.Sprintf("rate limit wait: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, fmt.Sprintf("invalid URL: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Sprintf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return true, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return false, fmt.Sprintf("HTTP %d", resp.StatusCode)
}
