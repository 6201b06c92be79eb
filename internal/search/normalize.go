package search

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MaxLimit caps the per-category result count.
	MaxLimit = 100
	// DefaultLimit applies when the caller omits limit.
	DefaultLimit = 20
)

// Query is the normalized form of an inbound search request. Building one
// is pure computation: no I/O, no side effects.
type Query struct {
	Raw        string
	Term       string   // trimmed query text
	Categories []string // subset of AllCategories, in canonical order
	Limit      int
	AI         bool

	ResolvedScientificName string // non-empty when a common name matched
	IsKnownCompound        bool
}

// Valid reports whether the query is worth running at all.
func (q Query) Valid() bool { return len(q.Term) >= 2 }

// HasCategory reports whether the named category was requested.
func (q Query) HasCategory(cat string) bool {
	for _, c := range q.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// CacheKey is the composite cache key: normalized term, sorted category
// set and limit. Identical requests map to identical keys.
func (q Query) CacheKey() string {
	cats := append([]string(nil), q.Categories...)
	sort.Strings(cats)
	return fmt.Sprintf("%s|%s|%d", strings.ToLower(q.Term), strings.Join(cats, ","), q.Limit)
}

// Normalize validates and canonicalises the raw request parameters and
// resolves the query against the static name tables.
func Normalize(rawQuery, rawTypes string, rawLimit int, ai bool) Query {
	term := strings.TrimSpace(rawQuery)

	limit := rawLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := Query{
		Raw:        rawQuery,
		Term:       term,
		Categories: parseCategories(rawTypes),
		Limit:      limit,
		AI:         ai,
	}
	if !q.Valid() {
		return q
	}
	q.ResolvedScientificName = ResolveCommonName(term)
	q.IsKnownCompound = IsKnownCompound(term)
	return q
}

// parseCategories keeps recognised names in canonical order; anything
// unknown is dropped, and an empty selection means all four.
func parseCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), AllCategories...)
	}
	requested := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		requested[strings.ToLower(strings.TrimSpace(part))] = true
	}
	var out []string
	for _, cat := range AllCategories {
		if requested[cat] {
			out = append(out, cat)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), AllCategories...)
	}
	return out
}
