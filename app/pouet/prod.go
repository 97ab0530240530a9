package pouet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/prodwatch/app/prod"
)

// GetProd fetches a prod from the JSON API. One attempt, no caching.
func (c *Client) GetProd(ctx context.Context, id string) (*prod.Response, error) {
	data, err := c.fetch(ctx, c.prodAPIURL(id))
	if err != nil {
		return nil, err
	}

	var resp prod.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("couldn't deserialize response for prod %s: %w", id, err)
	}

	if !resp.Success {
		return nil, fmt.Errorf("API reported failure for prod %s", id)
	}

	slog.Debug("Prod fetched", "prod", id, "name", resp.Prod.Name, "votes", resp.Prod.VoteString())
	return &resp, nil
}
