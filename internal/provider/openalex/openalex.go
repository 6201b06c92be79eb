// Package openalex adapts the fallback scholarly-metadata index.
package openalex

import (
	"context"
	"fmt"
	"sort"
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
		cfg.BaseURL = "https://api.openalex.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0)}
}

type worksResponse struct {
	Results []struct {
		ID          string `json:"id"`
		DOI         string `json:"doi"`
		DisplayName string `json:"display_name"`
		Authorships []struct {
			Author struct {
				DisplayName string `json:"display_name"`
			} `json:"author"`
		} `json:"authorships"`
		PrimaryLocation struct {
			Source struct {
				DisplayName string `json:"display_name"`
			} `json:"source"`
		} `json:"primary_location"`
		PublicationYear       int              `json:"publication_year"`
		AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	} `json:"results"`
}

// SearchWorks runs a free-text work search.
func (c *Client) SearchWorks(ctx context.Context, query string, limit int) ([]search.ResearchRecord, error) {
	url := fmt.Sprintf("%s/works?search=%s&per-page=%d", c.cfg.BaseURL, httpx.Query(query), limit)
	if c.cfg.MailTo != "" {
		url += "&mailto=" + httpx.Query(c.cfg.MailTo)
	}

	var resp worksResponse
	if err := c.http.DoJSON(ctx, "GET", url, nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []search.ResearchRecord
	for i, it := range resp.Results {
		if i >= limit {
			break
		}
		if it.DisplayName == "" {
			continue
		}
		rec := search.ResearchRecord{
			ID:         "res-" + strings.TrimPrefix(it.ID, "https://openalex.org/"),
			Title:      it.DisplayName,
			Journal:    it.PrimaryLocation.Source.DisplayName,
			Year:       it.PublicationYear,
			DOI:        strings.TrimPrefix(it.DOI, "https://doi.org/"),
			Abstract:   reconstructAbstract(it.AbstractInvertedIndex),
			Provenance: search.ProvenanceOpenAlex,
		}
		for _, a := range it.Authorships {
			if a.Author.DisplayName != "" {
				rec.Authors = append(rec.Authors, a.Author.DisplayName)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// the index ships abstracts as word -> positions; invert it back into text
func reconstructAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}
	type posWord struct {
		pos  int
		word string
	}
	var words []posWord
	for w, positions := range index {
		for _, p := range positions {
			words = append(words, posWord{pos: p, word: w})
		}
	}
	sort.Slice(words, func(i, j int) bool { return words[i].pos < words[j].pos })
	parts := make([]string, 0, len(words))
	for _, pw := range words {
		parts = append(parts, pw.word)
	}
	return strings.Join(parts, " ")
}
