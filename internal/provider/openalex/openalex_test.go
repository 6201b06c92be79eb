package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

func TestSearchWorksDecode(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("search") != "hericenones" || r.URL.Query().Get("per-page") != "5" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"results":[
			{
				"id": "https://openalex.org/W123",
				"doi": "https://doi.org/10.1000/xyz",
				"display_name": "Hericenones and erinacines",
				"authorships": [{"author": {"display_name": "Kenji Mori"}}],
				"primary_location": {"source": {"display_name": "Mycoscience"}},
				"publication_year": 2020,
				"abstract_inverted_index": {"stimulate": [2], "compounds": [1], "These": [0], "NGF": [3], "synthesis": [4]}
			},
			{
				"id": "https://openalex.org/W999",
				"display_name": ""
			}
		]}`))
	}))
	defer srv.Close()

	c := New(config.BibliographyConfig{BaseURL: srv.URL})
	out, err := c.SearchWorks(context.Background(), "hericenones", 5)
	if err != nil {
		t.Fatalf("SearchWorks: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("nameless works must be skipped, got %d records", len(out))
	}
	rec := out[0]
	if rec.ID != "res-W123" {
		t.Fatalf("id = %q", rec.ID)
	}
	if rec.DOI != "10.1000/xyz" {
		t.Fatalf("doi prefix not stripped: %q", rec.DOI)
	}
	if rec.Title != "Hericenones and erinacines" || rec.Journal != "Mycoscience" || rec.Year != 2020 {
		t.Fatalf("fields: %+v", rec)
	}
	if rec.Abstract != "These compounds stimulate NGF synthesis" {
		t.Fatalf("abstract reconstruction: %q", rec.Abstract)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "Kenji Mori" {
		t.Fatalf("authors: %+v", rec.Authors)
	}
	if rec.Provenance != search.ProvenanceOpenAlex {
		t.Fatalf("provenance = %q", rec.Provenance)
	}
}

func TestReconstructAbstract(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"empty", nil, ""},
		{"single word", map[string][]int{"alone": {0}}, "alone"},
		{"repeated word", map[string][]int{"the": {0, 2}, "more": {1}, "merrier": {3}}, "the more the merrier"},
	}
	for _, tc := range cases {
		if got := reconstructAbstract(tc.index); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
