package inaturalist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

const taxaBody = `{"results":[
	{
		"id": 48701,
		"name": "Ganoderma lucidum",
		"preferred_common_name": "reishi",
		"rank": "species",
		"observations_count": 9120,
		"iconic_taxon_name": "Fungi",
		"wikipedia_summary": "A polypore fungus.",
		"default_photo": {"id": 7, "url": "http://img/sq.jpg", "medium_url": "http://img/m.jpg", "large_url": "http://img/l.jpg", "attribution": "(c) someone"},
		"ancestors": [
			{"rank": "kingdom", "name": "Fungi"},
			{"rank": "phylum", "name": "Basidiomycota"},
			{"rank": "family", "name": "Ganodermataceae"},
			{"rank": "genus", "name": "Ganoderma"}
		]
	},
	{
		"id": 99,
		"name": "Ganoderma the plant",
		"rank": "species",
		"iconic_taxon_name": "Plantae"
	}
]}`

func TestSearchTaxaKingdomFilter(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/taxa" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("is_active") != "true" {
			t.Errorf("inactive taxa must be excluded: %s", r.URL.RawQuery)
		}
		w.Write([]byte(taxaBody))
	}))
	defer srv.Close()

	c := New(config.INaturalistConfig{BaseURL: srv.URL})
	out, err := c.SearchTaxa(context.Background(), "ganoderma", 10, KingdomFungi)
	if err != nil {
		t.Fatalf("SearchTaxa: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("kingdom filter failed, got %d records", len(out))
	}
	rec := out[0]
	if rec.ID != "48701" || rec.ScientificName != "Ganoderma lucidum" || rec.CommonName != "reishi" {
		t.Fatalf("record: %+v", rec)
	}
	if rec.Taxonomy.Kingdom != "Fungi" || rec.Taxonomy.Phylum != "Basidiomycota" || rec.Taxonomy.Genus != "Ganoderma" {
		t.Fatalf("ancestors not mapped: %+v", rec.Taxonomy)
	}
	if len(rec.Photos) != 1 || rec.Photos[0].LargeURL != "http://img/l.jpg" || rec.Photos[0].Attribution != "(c) someone" {
		t.Fatalf("default photo: %+v", rec.Photos)
	}
	if rec.Provenance != search.ProvenanceINaturalist {
		t.Fatalf("provenance = %q", rec.Provenance)
	}
}

func TestSearchTaxaNoKingdomKeepsAll(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(taxaBody))
	}))
	defer srv.Close()

	c := New(config.INaturalistConfig{BaseURL: srv.URL})
	out, err := c.SearchTaxa(context.Background(), "ganoderma", 10, "")
	if err != nil {
		t.Fatalf("SearchTaxa: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("empty kingdom should not filter, got %d records", len(out))
	}
}

func TestSearchTaxaLimit(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(taxaBody))
	}))
	defer srv.Close()

	c := New(config.INaturalistConfig{BaseURL: srv.URL})
	out, err := c.SearchTaxa(context.Background(), "ganoderma", 1, "")
	if err != nil {
		t.Fatalf("SearchTaxa: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("limit not enforced, got %d records", len(out))
	}
}
