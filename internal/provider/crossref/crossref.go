// Package crossref adapts the primary scholarly-metadata index.
package crossref

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/httpx"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Client struct {
	cfg  config.BibliographyConfig
	http *httpx.Client
}

func New(cfg config.BibliographyConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.crossref.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0)}
}

type worksResponse struct {
	Message struct {
		Items []struct {
			DOI            string     `json:"DOI"`
			Title          []string   `json:"title"`
			ContainerTitle []string   `json:"container-title"`
			Abstract       string     `json:"abstract"`
			Author         []struct { Given, Family string } `json:"author"`
			Issued         struct {
				DateParts [][]int `json:"date-parts"`
			} `json:"issued"`
		} `json:"items"`
	} `json:"message"`
}

// SearchWorks runs a free-text work search.
func (c *Client) SearchWorks(ctx context.Context, query string, limit int) ([]search.ResearchRecord, error) {
	url := fmt.Sprintf("%s/works?query=%s&rows=%d", c.cfg.BaseURL, httpx.Query(query), limit)
	if c.cfg.MailTo != "" {
		url += "&mailto=" + httpx.Query(c.cfg.MailTo)
	}

	var resp worksResponse
	if err := c.http.DoJSON(ctx, "GET", url, nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []search.ResearchRecord
	for i, it := range resp.Message.Items {
		if i >= limit {
			break
		}
		rec := search.ResearchRecord{
			ID:         "res-crossref-" + fmt.Sprintf("%d", i),
			DOI:        it.DOI,
			Abstract:   stripJATS(it.Abstract),
			Provenance: search.ProvenanceCrossref,
		}
		if it.DOI != "" {
			rec.ID = "res-" + it.DOI
		}
		if len(it.Title) > 0 {
			rec.Title = it.Title[0]
		}
		if len(it.ContainerTitle) > 0 {
			rec.Journal = it.ContainerTitle[0]
		}
		for _, a := range it.Author {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name != "" {
				rec.Authors = append(rec.Authors, name)
			}
		}
		if dp := it.Issued.DateParts; len(dp) > 0 && len(dp[0]) > 0 {
			rec.Year = dp[0][0]
		}
		if rec.Title == "" {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// abstracts come back as JATS XML fragments; keep the text only
func stripJATS(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
