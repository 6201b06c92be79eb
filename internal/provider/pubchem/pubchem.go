// Package pubchem adapts the chemical-structure lookup service. Lookups are
// by exact compound name against the PUG REST property endpoint.
package pubchem

import (
	"context"
	"fmt"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/httpx"
	"github.com/MycosoftLabs/biosearch/internal/provider"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

type Client struct {
	cfg  config.PubChemConfig
	http *httpx.Client
}

func New(cfg config.PubChemConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2500 * time.Millisecond
	}
	return &Client{cfg: cfg, http: httpx.NewClient(cfg.Timeout, 0, 0)}
}

// Compound fetches structural properties for one compound name. The API
// reports MolecularWeight as a string in current deployments and as a number
// in older ones, so the decode accepts both.
func (c *Client) Compound(ctx context.Context, name string) (search.CompoundRecord, error) {
	url := fmt.Sprintf("%s/compound/name/%s/property/MolecularFormula,MolecularWeight,CanonicalSMILES,InChI/JSON",
		c.cfg.BaseURL, httpx.Query(name))

	var raw struct {
		PropertyTable struct {
			Properties []map[string]any `json:"Properties"`
		} `json:"PropertyTable"`
	}
	if err := c.http.DoJSON(ctx, "GET", url, nil, nil, &raw); err != nil {
		return search.CompoundRecord{}, err
	}
	if len(raw.PropertyTable.Properties) == 0 {
		return search.CompoundRecord{}, fmt.Errorf("no properties for %q", name)
	}

	p := raw.PropertyTable.Properties[0]
	notation := provider.Str(p, "CanonicalSMILES", "SMILES")
	if notation == "" {
		notation = provider.Str(p, "InChI")
	}
	return search.CompoundRecord{
		ID:                fmt.Sprintf("pubchem-%d", int(provider.Num(p, "CID"))),
		Name:              name,
		Formula:           provider.Str(p, "MolecularFormula"),
		MolecularWeight:   provider.Num(p, "MolecularWeight"),
		StructureNotation: notation,
		Provenance:        search.ProvenancePubChem,
	}, nil
}
