package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"shop-monitor/pkg/models"
)

// userAgent identifies the monitor to the shop, verbatim from the project's
// long-running convention of announcing itself in prose.
const userAgent = "The Summer of Making Monitor starts now! The premise is simple: scrape stuff, ping stuff! Your job is to send me the shop items you have available to peruse. Tell the story of your items with updates on your shop page. One you're done, your shop item update goes to head-to-head #meta match ups voted on by the community. The more votes you get, the less likely Hack Club gets cancelled! You can spend shells on rewards in the shop. We're giving away shells, orders, users, everything you need to keep building. Update stuff, get stuff. Repeat until the summer ends on August 31st. This summer is yours for the making, get started at go.skyfall.dev/som-monitor. For teenagers 18 or under."

// Client fetches shop pages with the session cookie attached. All scraper
// variants share one Client so the rate limit covers the whole host, the way
// a per-domain limiter would in a general crawler.
type Client struct {
	httpClient *http.Client
	root       string
	cookie     string
	limiter    *rate.Limiter

	mu           sync.Mutex
	robotsGroup  *robotstxt.Group
	robotsLoaded bool
}

// NewClient creates a Client for the given shop origin.
func NewClient(root, cookie string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			// A redirect means the session cookie expired; surface the 3xx
			// instead of silently scraping the login page.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		root:   root,
		cookie: cookie,
		// One run issues up to ~a dozen page fetches at once; the burst lets
		// a single run through immediately while back-to-back manual checks
		// get spaced out.
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 16),
	}
}

// Root returns the shop origin the client was built for.
func (c *Client) Root() string { return c.root }

// GetDoc fetches a shop page and parses it into an HTML document.
func (c *Client) GetDoc(ctx context.Context, pageURL string) (*html.Node, error) {
	c.adviseRobots(pageURL)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Op: "shop fetch " + pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &models.TransportError{
			Op:     "shop fetch " + pageURL,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// adviseRobots fetches the host's robots.txt once and logs when the shop
// path is disallowed for us. Advisory only: the monitor scrapes an
// authenticated view the operator owns a session for.
func (c *Client) adviseRobots(pageURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.robotsLoaded {
		return
	}
	c.robotsLoaded = true

	u, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodGet, u.Scheme+"://"+u.Host+"/robots.txt", nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", userAgent)
	// Shares the page client so the fetch inherits its timeout; a slow
	// robots.txt must not stall the run.
	resp, err := c.httpClient.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		// No robots.txt = nothing to advise about.
		if resp != nil {
			resp.Body.Close()
		}
		return
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return
	}
	c.robotsGroup = data.FindGroup(userAgent)
	if c.robotsGroup != nil && !c.robotsGroup.Test(u.Path) {
		log.Printf("Warning: robots.txt on %s disallows %s; continuing with authenticated session", u.Host, u.Path)
	}
}
