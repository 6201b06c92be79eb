// Package mindex adapts the primary curated biology database. Its unified
// search endpoint returns keyed lists of taxa, compounds, genetic sequences
// and research for a free-text query.
package mindex

import (
	"context"
	"fmt"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/httpx"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Client struct {
	cfg  config.MindexConfig
	http *httpx.Client
}

func New(cfg config.MindexConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0)}
}

// Unified issues the single primary-database search call and decodes every
// category it returned. Older deployments key the lists differently
// (taxa/species, genetics/sequences), so decoding tolerates both.
func (c *Client) Unified(ctx context.Context, query string, limit int) (search.Results, error) {
	url := fmt.Sprintf("%s/api/mindex/unified-search?q=%s&limit=%d", c.cfg.BaseURL, httpx.Query(query), limit)
	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["X-API-Key"] = c.cfg.APIKey
	}

	var raw map[string]any
	if err := c.http.DoJSON(ctx, "GET", url, headers, nil, &raw); err != nil {
		return search.Results{}, err
	}
	return decodeUnified(raw), nil
}
