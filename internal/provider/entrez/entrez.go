// Package entrez adapts the nucleotide sequence archive. Searching is a
// two-step protocol: a term query returning ids, then a summary call for
// those ids. The archive rate-limits by source IP, so the two calls are
// separated by a configured delay.
package entrez

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/httpx"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Client struct {
	cfg  config.EntrezConfig
	http *httpx.Client

	sleep func(context.Context, time.Duration) error
}

func New(cfg config.EntrezConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.CallDelay == 0 {
		cfg.CallDelay = 350 * time.Millisecond
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0), sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// SearchNucleotide finds up to limit sequences for an organism term.
func (c *Client) SearchNucleotide(ctx context.Context, term string, limit int) ([]search.GeneticsRecord, error) {
	searchURL := fmt.Sprintf("%s/esearch.fcgi?db=nucleotide&term=%s&retmax=%d&retmode=json",
		c.cfg.BaseURL, httpx.Query(term+"[Organism]"), limit)
	searchURL = c.withKey(searchURL)

	var ids esearchResponse
	if err := c.http.DoJSON(ctx, "GET", searchURL, nil, nil, &ids); err != nil {
		return nil, err
	}
	if len(ids.ESearchResult.IDList) == 0 {
		return nil, nil
	}

	if err := c.sleep(ctx, c.cfg.CallDelay); err != nil {
		return nil, err
	}

	summaryURL := fmt.Sprintf("%s/esummary.fcgi?db=nucleotide&id=%s&retmode=json",
		c.cfg.BaseURL, strings.Join(ids.ESearchResult.IDList, ","))
	summaryURL = c.withKey(summaryURL)

	// esummary keys each document by its uid next to a "uids" index array
	var raw struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := c.http.DoJSON(ctx, "GET", summaryURL, nil, nil, &raw); err != nil {
		return nil, err
	}

	var uids []string
	if b, ok := raw.Result["uids"]; ok {
		_ = json.Unmarshal(b, &uids)
	}

	var out []search.GeneticsRecord
	for _, uid := range uids {
		b, ok := raw.Result[uid]
		if !ok {
			continue
		}
		var doc struct {
			Caption          string  `json:"caption"`
			AccessionVersion string  `json:"accessionversion"`
			Title            string  `json:"title"`
			Organism         string  `json:"organism"`
			SLen             float64 `json:"slen"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			continue
		}
		accession := doc.AccessionVersion
		if accession == "" {
			accession = doc.Caption
		}
		out = append(out, search.GeneticsRecord{
			ID:             "gen-" + uid,
			Accession:      accession,
			SpeciesName:    doc.Organism,
			GeneRegion:     geneRegionFromTitle(doc.Title),
			SequenceLength: int(doc.SLen),
			Source:         "GenBank",
			Provenance:     search.ProvenanceEntrez,
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (c *Client) withKey(url string) string {
	if c.cfg.APIKey == "" {
		return url
	}
	return url + "&api_key=" + c.cfg.APIKey
}

// markers commonly named in nucleotide record titles, checked in order
var geneMarkers = []string{"ITS", "LSU", "SSU", "18S", "28S", "5.8S", "tef1", "rpb2", "rpb1", "beta-tubulin", "COI"}

func geneRegionFromTitle(title string) string {
	up := strings.ToUpper(title)
	for _, m := range geneMarkers {
		if strings.Contains(up, strings.ToUpper(m)) {
			return m
		}
	}
	return ""
}
