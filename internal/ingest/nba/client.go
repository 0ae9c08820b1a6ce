package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// LiveDataBaseURL serves static per-game play-by-play and box-score
	// JSON documents.
	LiveDataBaseURL = "https://cdn.nba.com/static/json/liveData"

	// StatsBaseURL serves the schedule (game finder) endpoint.
	StatsBaseURL = "https://stats.nba.com/stats"

	// UserAgent for requests; the stats host rejects default Go clients.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval spaces out requests so a season build stays
	// under the upstream's implicit rate limits.
	MinRequestInterval = 700 * time.Millisecond
)

// Client fetches schedule, play-by-play, and box-score documents with a
// globally enforced minimum delay between requests. Safe for concurrent
// use; the spacing applies across goroutines.
type Client struct {
	httpClient *http.Client
	liveBase   string
	statsBase  string

	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
}

// NewClient creates a client with default endpoints and spacing.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		liveBase:   LiveDataBaseURL,
		statsBase:  StatsBaseURL,
		interval:   MinRequestInterval,
	}
}

// NewClientWithBaseURLs overrides the endpoints, for tests and mirrors.
func NewClientWithBaseURLs(liveBase, statsBase string) *Client {
	c := NewClient()
	if liveBase != "" {
		c.liveBase = liveBase
	}
	if statsBase != "" {
		c.statsBase = statsBase
	}
	return c
}

// Schedule returns the season's game IDs for a team, sorted ascending.
func (c *Client) Schedule(ctx context.Context, teamID int, season string) ([]string, error) {
	params := url.Values{}
	params.Set("TeamIDNullable", fmt.Sprint(teamID))
	params.Set("SeasonNullable", season)
	params.Set("SeasonTypeNullable", "Regular Season")
	params.Set("PlayerOrTeam", "T")

	endpoint := fmt.Sprintf("%s/leaguegamefinder?%s", c.statsBase, params.Encode())
	data, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}

	return ParseScheduleGameIDs(data)
}

// PlayByPlay returns the ordered action stream for a game.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]Action, error) {
	endpoint := fmt.Sprintf("%s/playbyplay/playbyplay_%s.json", c.liveBase, gameID)
	data, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch play-by-play: %w", err)
	}
	return ParseActions(data), nil
}

// BoxScore returns the given team's box score for a game.
func (c *Client) BoxScore(ctx context.Context, gameID string, teamID int) (*BoxScore, error) {
	endpoint := fmt.Sprintf("%s/boxscore/boxscore_%s.json", c.liveBase, gameID)
	data, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch box score: %w", err)
	}
	return ParseBoxScore(data, teamID)
}

// fetch performs a rate-limited GET and decodes the JSON body.
func (c *Client) fetch(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	c.waitTurn(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}

// waitTurn blocks until the minimum inter-request spacing has elapsed.
func (c *Client) waitTurn(ctx context.Context) {
	c.mu.Lock()
	now := time.Now()
	next := c.lastRequest.Add(c.interval)
	if next.Before(now) {
		next = now
	}
	c.lastRequest = next
	wait := next.Sub(now)
	c.mu.Unlock()

	if wait <= 0 {
		return
	}
	log.Printf("[nba-client] rate limiting: waiting %v before next request", wait.Round(time.Millisecond))
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}
