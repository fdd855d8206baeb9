package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/veggiemap/menuscout/internal/urlutil"
)

// DefaultRelayBase is the public text-extraction relay used when no
// RELAY_BASE is configured.
const DefaultRelayBase = "https://r.jina.ai"

// RelayClient fetches a plain-text rendering of a page through a
// text-extraction relay, with per-host rate limits and a robots.txt check
// against the target site.
type RelayClient struct {
	client      *http.Client
	base        string
	ua          string
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewRelayClient(base, userAgent string) *RelayClient {
	if base == "" {
		base = DefaultRelayBase
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	base = strings.TrimSuffix(base, "/")
	if userAgent == "" {
		userAgent = "menuscout-bot/1.0"
	}
	return &RelayClient{
		client:      &http.Client{Timeout: 15 * time.Second},
		base:        base,
		ua:          userAgent,
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

// FetchText retrieves the relay's text rendering of target. Non-2xx relay
// responses surface as a *FetchError; the caller moves on to its next
// candidate URL rather than retrying.
func (c *RelayClient) FetchText(ctx context.Context, target string) (string, error) {
	target = urlutil.Normalize(target)
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("relay: unusable target %q", target)
	}

	if !c.allowed(ctx, u) {
		return "", fmt.Errorf("blocked by robots.txt: %s", target)
	}

	if err := c.limiterFor(u.Hostname()).Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.relayURL(target), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Status: resp.StatusCode, Err: errors.New("relay response not ok")}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// relayURL prefixes the scheme-stripped target onto the relay endpoint.
func (c *RelayClient) relayURL(target string) string {
	return c.base + "/" + urlutil.StripScheme(target)
}

func (c *RelayClient) limiterFor(host string) *rate.Limiter {
	host = urlutil.NormalizeHost(host)
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(time.Second), 2) // 1 req/s, burst 2
	c.limiters[host] = l
	return l
}

// allowed checks the target site's robots.txt before asking the relay to
// fetch it. Fails open: robots errors never block a scrape.
func (c *RelayClient) allowed(ctx context.Context, u *url.URL) bool {
	data, err := c.robotsFor(ctx, u)
	if err != nil {
		return true
	}
	group := data.FindGroup(c.ua)
	if group == nil {
		group = data.FindGroup("*")
	}
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (c *RelayClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Hostname()
	c.mu.Lock()
	if data, ok := c.robotsCache[host]; ok {
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)

	if err := c.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.robotsCache[host] = data
	c.mu.Unlock()
	return data, nil
}
