// Package inaturalist adapts the citizen-science observation service.
package inaturalist

import (
	"context"
	"fmt"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/httpx"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

// KingdomFungi is the iconic-taxon filter used by the compound->species path.
const KingdomFungi = "Fungi"

type Client struct {
	cfg  config.INaturalistConfig
	http *httpx.Client
}

func New(cfg config.INaturalistConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.inaturalist.org/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 4 * time.Second
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0)}
}

type taxaResponse struct {
	Results []struct {
		ID                  int    `json:"id"`
		Name                string `json:"name"`
		PreferredCommonName string `json:"preferred_common_name"`
		Rank                string `json:"rank"`
		ObservationsCount   int    `json:"observations_count"`
		IconicTaxonName     string `json:"iconic_taxon_name"`
		WikipediaSummary    string `json:"wikipedia_summary"`
		DefaultPhoto        *struct {
			ID          int    `json:"id"`
			URL         string `json:"url"`
			MediumURL   string `json:"medium_url"`
			LargeURL    string `json:"large_url"`
			Attribution string `json:"attribution"`
		} `json:"default_photo"`
		Ancestors []struct {
			Rank string `json:"rank"`
			Name string `json:"name"`
		} `json:"ancestors"`
	} `json:"results"`
}

// SearchTaxa looks up taxa by name. A non-empty kingdom restricts results
// to that iconic taxon.
func (c *Client) SearchTaxa(ctx context.Context, query string, limit int, kingdom string) ([]search.SpeciesRecord, error) {
	url := fmt.Sprintf("%s/taxa?q=%s&per_page=%d&is_active=true", c.cfg.BaseURL, httpx.Query(query), limit)
	var resp taxaResponse
	if err := c.http.DoJSON(ctx, "GET", url, nil, nil, &resp); err != nil {
		return nil, err
	}

	var out []search.SpeciesRecord
	for _, t := range resp.Results {
		if kingdom != "" && t.IconicTaxonName != kingdom {
			continue
		}
		rec := search.SpeciesRecord{
			ID:               fmt.Sprintf("%d", t.ID),
			ScientificName:   t.Name,
			CommonName:       t.PreferredCommonName,
			Description:      t.WikipediaSummary,
			ObservationCount: t.ObservationsCount,
			Rank:             t.Rank,
			Provenance:       search.ProvenanceINaturalist,
		}
		for _, a := range t.Ancestors {
			switch a.Rank {
			case "kingdom":
				rec.Taxonomy.Kingdom = a.Name
			case "phylum":
				rec.Taxonomy.Phylum = a.Name
			case "class":
				rec.Taxonomy.Class = a.Name
			case "order":
				rec.Taxonomy.Order = a.Name
			case "family":
				rec.Taxonomy.Family = a.Name
			case "genus":
				rec.Taxonomy.Genus = a.Name
			}
		}
		if rec.Taxonomy.Kingdom == "" && t.IconicTaxonName == KingdomFungi {
			rec.Taxonomy.Kingdom = KingdomFungi
		}
		if p := t.DefaultPhoto; p != nil {
			rec.Photos = append(rec.Photos, search.Photo{
				ID:          fmt.Sprintf("%d", p.ID),
				URL:         p.URL,
				MediumURL:   p.MediumURL,
				LargeURL:    p.LargeURL,
				Attribution: p.Attribution,
			})
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
