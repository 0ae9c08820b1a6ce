// Package rosterweb scrapes the public team roster page to fill in
// position metadata that the box-score feed sometimes omits (injured or
// two-way players who never start). Enrichment is best-effort: any
// failure leaves the roster as built from the event log.
package rosterweb

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// BaseURL for team roster pages; pages are JS-rendered so a headless
	// browser is required.
	BaseURL = "https://www.nba.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to prevent rate limiting
	MinRequestInterval = 2 * time.Second
)

// Client fetches rendered roster pages with rate limiting.
type Client struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a headless-browser roster page client.
func NewClient() (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		interval: MinRequestInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases the browser allocator.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchRosterPage returns the rendered HTML of a team's roster page.
// The team name becomes the URL slug, e.g. "Minnesota Timberwolves" to
// /timberwolves/roster.
func (c *Client) FetchRosterPage(ctx context.Context, teamName string) (string, error) {
	parts := strings.Fields(strings.ToLower(teamName))
	if len(parts) == 0 {
		return "", fmt.Errorf("empty team name")
	}
	slug := parts[len(parts)-1]
	url := fmt.Sprintf("%s/%s/roster", BaseURL, slug)
	return c.fetchWithRateLimit(ctx, url)
}

func (c *Client) fetchWithRateLimit(ctx context.Context, url string) (string, error) {
	c.mu.Lock()
	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.interval {
			wait := c.interval - elapsed
			log.Printf("[rosterweb] rate limiting: waiting %v before next request", wait)
			time.Sleep(wait)
		}
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	return c.fetch(ctx, url)
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-browserCtx.Done():
		}
	}()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}
