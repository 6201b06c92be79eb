package search

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		query     string
		types     string
		limit     int
		wantValid bool
		wantCats  []string
		wantLimit int
	}{
		{
			name:      "defaults",
			query:     "Amanita muscaria",
			wantValid: true,
			wantCats:  []string{"species", "compounds", "genetics", "research"},
			wantLimit: 20,
		},
		{
			name:      "too short after trim",
			query:     "  a  ",
			wantValid: false,
			wantCats:  []string{"species", "compounds", "genetics", "research"},
			wantLimit: 20,
		},
		{
			name:      "limit clamped high",
			query:     "reishi",
			limit:     5000,
			wantValid: true,
			wantCats:  []string{"species", "compounds", "genetics", "research"},
			wantLimit: 100,
		},
		{
			name:      "subset of categories in canonical order",
			query:     "reishi",
			types:     "research, species",
			wantValid: true,
			wantCats:  []string{"species", "research"},
			wantLimit: 20,
		},
		{
			name:      "unknown categories fall back to all",
			query:     "reishi",
			types:     "bogus,nonsense",
			wantValid: true,
			wantCats:  []string{"species", "compounds", "genetics", "research"},
			wantLimit: 20,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			q := Normalize(tt.query, tt.types, tt.limit, false)
			if q.Valid() != tt.wantValid {
				t.Fatalf("Valid() = %v, want %v", q.Valid(), tt.wantValid)
			}
			if q.Limit != tt.wantLimit {
				t.Fatalf("Limit = %d, want %d", q.Limit, tt.wantLimit)
			}
			if strings.Join(q.Categories, ",") != strings.Join(tt.wantCats, ",") {
				t.Fatalf("Categories = %v, want %v", q.Categories, tt.wantCats)
			}
		})
	}
}

func TestNormalizeResolvesCommonName(t *testing.T) {
	t.Parallel()
	q := Normalize("Reishi", "", 0, false)
	if q.ResolvedScientificName != "Ganoderma lucidum" {
		t.Fatalf("ResolvedScientificName = %q, want Ganoderma lucidum", q.ResolvedScientificName)
	}
	if q.IsKnownCompound {
		t.Fatalf("reishi should not be flagged as a compound")
	}

	// substring tolerance
	q = Normalize("turkey tail benefits", "", 0, false)
	if q.ResolvedScientificName != "Trametes versicolor" {
		t.Fatalf("ResolvedScientificName = %q, want Trametes versicolor", q.ResolvedScientificName)
	}
}

func TestNormalizeDetectsCompound(t *testing.T) {
	t.Parallel()
	q := Normalize("psilocybin", "", 0, false)
	if !q.IsKnownCompound {
		t.Fatalf("psilocybin should be flagged as a known compound")
	}
	if q.ResolvedScientificName != "" {
		t.Fatalf("psilocybin should not resolve to a scientific name, got %q", q.ResolvedScientificName)
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()
	a := Normalize("Reishi", "species,research", 10, false)
	b := Normalize("reishi", "research,species", 10, true)
	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("keys differ for equivalent requests: %q vs %q", a.CacheKey(), b.CacheKey())
	}
	c := Normalize("reishi", "species,research", 11, false)
	if a.CacheKey() == c.CacheKey() {
		t.Fatalf("keys should differ when limit differs")
	}
}
