package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetPriceHistory fetches the YES price history for a CLOB token, starting
// at startTs (seconds since epoch; 0 = as far back as the API allows).
// Fidelity is the bar width in minutes; 1 gives minute resolution.
func (c *Client) GetPriceHistory(ctx context.Context, tokenID string, startTs int64, fidelity int) ([]HistoryPoint, error) {
	query := url.Values{}
	query.Set("market", tokenID)
	if startTs > 0 {
		query.Set("startTs", strconv.FormatInt(startTs, 10))
	}
	if fidelity > 0 {
		query.Set("fidelity", strconv.Itoa(fidelity))
	}

	var resp HistoryResponse
	if err := c.get(ctx, c.clobURL, "/prices-history", query, &resp); err != nil {
		return nil, fmt.Errorf("get price history %s: %w", tokenID, err)
	}

	return resp.History, nil
}
