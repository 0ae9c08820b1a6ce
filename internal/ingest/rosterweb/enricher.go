package rosterweb

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/oncourt/internal/store"
)

// Enricher fills missing roster positions from the scraped roster page.
// Implements the ingest enricher hook; all failures are logged and
// swallowed so a scrape outage never fails a build.
type Enricher struct {
	client *Client
}

// NewEnricher creates an enricher over a roster page client.
func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

// Enrich returns the roster with empty positions filled in where the
// roster page knows the player.
func (e *Enricher) Enrich(ctx context.Context, team string, roster []store.RosterEntry) []store.RosterEntry {
	missing := 0
	for _, entry := range roster {
		if entry.Position == "" {
			missing++
		}
	}
	if missing == 0 {
		return roster
	}

	html, err := e.client.FetchRosterPage(ctx, team)
	if err != nil {
		log.Printf("[rosterweb] fetch roster page for %s failed: %v", team, err)
		return roster
	}

	positions, err := ParsePositions(html)
	if err != nil {
		log.Printf("[rosterweb] parse roster page for %s failed: %v", team, err)
		return roster
	}

	filled := 0
	for i, entry := range roster {
		if entry.Position != "" {
			continue
		}
		if pos, ok := positions[normalizeName(entry.Name)]; ok {
			roster[i].Position = pos
			filled++
		}
	}
	log.Printf("[rosterweb] %s: filled %d/%d missing positions", team, filled, missing)
	return roster
}

// ParsePositions extracts player name to position mappings from a rendered
// roster page. Rows missing either cell are skipped.
func ParsePositions(html string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	positions := make(map[string]string)
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		name := strings.TrimSpace(cells.Eq(0).Text())
		pos := strings.TrimSpace(cells.Eq(2).Text())
		if name == "" || pos == "" {
			return
		}
		positions[normalizeName(name)] = pos
	})

	if len(positions) == 0 {
		return nil, fmt.Errorf("no roster rows found")
	}
	return positions, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
