package polymarket

import (
	"context"
	"fmt"
	"net/url"
)

// GetEventBySlug fetches an event and its markets from the Gamma API.
// The endpoint returns a list; the first entry is the match.
func (c *Client) GetEventBySlug(ctx context.Context, slug string) (*GammaEvent, error) {
	query := url.Values{}
	query.Set("slug", slug)

	var events []GammaEvent
	if err := c.get(ctx, c.gammaURL, "/events", query, &events); err != nil {
		return nil, fmt.Errorf("get event %s: %w", slug, err)
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("event %q not found", slug)
	}

	return &events[0], nil
}
