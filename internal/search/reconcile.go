package search

import (
	"strings"
)

// reconcile turns the per-source lists of one fan-out into the four
// canonical category lists. Merging is deterministic: primary-source
// records always precede secondary ones, whatever order the adapters
// finished in. Every list is truncated to the query limit afterwards.
func reconcile(q Query, g *gathered) Results {
	res := Results{
		Species:   mergeSpecies(g),
		Compounds: mergeCompounds(q, g),
		Genetics:  mergeGenetics(g),
		Research:  mergeResearch(g),
	}
	res.Species = truncateSpecies(res.Species, q.Limit)
	res.Compounds = truncateCompounds(res.Compounds, q.Limit)
	res.Genetics = truncateGenetics(res.Genetics, q.Limit)
	res.Research = truncateResearch(res.Research, q.Limit)
	return res
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripVersion removes a trailing accession version ("MN901234.1" and
// "MN901234" compare equal).
func stripVersion(accession string) string {
	if i := strings.LastIndexByte(accession, '.'); i > 0 {
		return accession[:i]
	}
	return accession
}

// mergeSpecies keeps primary records first and appends secondary records
// only when their normalized scientific name is new. IDs get a category
// prefix with the scientific name as fallback; an ID collision drops the
// later record.
func mergeSpecies(g *gathered) []SpeciesRecord {
	seenName := map[string]bool{}
	seenID := map[string]bool{}
	out := []SpeciesRecord{}

	add := func(rec SpeciesRecord) {
		name := normalizeName(rec.ScientificName)
		if name == "" || seenName[name] {
			return
		}
		id := rec.ID
		if id == "" {
			id = strings.ReplaceAll(name, " ", "-")
		}
		id = "sp-" + id
		if seenID[id] {
			return
		}
		seenName[name] = true
		seenID[id] = true
		rec.ID = id
		out = append(out, rec)
	}

	for _, rec := range g.primary.Species {
		add(rec)
	}
	for _, rec := range g.citizenSpecies {
		add(rec)
	}
	for _, rec := range g.derivedSpecies {
		add(rec)
	}
	return out
}

// mergeGenetics deduplicates by accession ignoring the version suffix.
// Primary records stay first; a sparse primary record (no gene region and
// no length) borrows exactly those two fields from a matching archive
// record. Enrichment builds a new value, the archive record is untouched.
func mergeGenetics(g *gathered) []GeneticsRecord {
	byAccession := map[string]GeneticsRecord{}
	for _, rec := range g.archive {
		if acc := stripVersion(rec.Accession); acc != "" {
			byAccession[acc] = rec
		}
	}

	seen := map[string]bool{}
	out := []GeneticsRecord{}
	for _, rec := range g.primary.Genetics {
		acc := stripVersion(rec.Accession)
		if acc != "" {
			if seen[acc] {
				continue
			}
			seen[acc] = true
			if rec.GeneRegion == "" && rec.SequenceLength == 0 {
				if match, ok := byAccession[acc]; ok {
					enriched := rec
					enriched.GeneRegion = match.GeneRegion
					enriched.SequenceLength = match.SequenceLength
					rec = enriched
				}
			}
		}
		out = append(out, rec)
	}
	for _, rec := range g.archive {
		acc := stripVersion(rec.Accession)
		if acc != "" && seen[acc] {
			continue
		}
		if acc != "" {
			seen[acc] = true
		}
		out = append(out, rec)
	}
	return out
}

// mergeCompounds keeps primary compounds first, then species-targeted
// compounds whose name is not already present (case-insensitive). When the
// query travelled the compound-to-species path, resolved species names are
// attached to compounds that arrived without any.
func mergeCompounds(q Query, g *gathered) []CompoundRecord {
	var derivedNames []string
	for _, sp := range g.derivedSpecies {
		derivedNames = appendMissing(derivedNames, sp.ScientificName)
	}

	seen := map[string]bool{}
	out := []CompoundRecord{}
	add := func(rec CompoundRecord) {
		name := normalizeName(rec.Name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		if rec.ID == "" {
			rec.ID = "cmp-" + strings.ReplaceAll(name, " ", "-")
		}
		if q.IsKnownCompound && len(rec.SourceSpecies) == 0 && len(derivedNames) > 0 {
			enriched := rec
			enriched.SourceSpecies = append([]string(nil), derivedNames...)
			rec = enriched
		}
		out = append(out, rec)
	}

	for _, rec := range g.primary.Compounds {
		add(rec)
	}
	for _, rec := range g.targetCompounds {
		add(rec)
	}
	return out
}

// mergeResearch concatenates primary, then the primary bibliographic
// provider, then the fallback provider, deduplicating DOI-first with title
// as the fallback key.
func mergeResearch(g *gathered) []ResearchRecord {
	seen := map[string]bool{}
	out := []ResearchRecord{}
	add := func(rec ResearchRecord) {
		key := normalizeName(rec.DOI)
		if key == "" {
			key = "title:" + normalizeName(rec.Title)
		}
		if key == "title:" || seen[key] {
			return
		}
		seen[key] = true
		if rec.ID == "" {
			rec.ID = "res-" + strings.ReplaceAll(normalizeName(rec.Title), " ", "-")
		}
		out = append(out, rec)
	}

	for _, rec := range g.primary.Research {
		add(rec)
	}
	for _, rec := range g.works {
		add(rec)
	}
	for _, rec := range g.worksBackup {
		add(rec)
	}
	return out
}

func truncateSpecies(in []SpeciesRecord, limit int) []SpeciesRecord {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func truncateCompounds(in []CompoundRecord, limit int) []CompoundRecord {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func truncateGenetics(in []GeneticsRecord, limit int) []GeneticsRecord {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func truncateResearch(in []ResearchRecord, limit int) []ResearchRecord {
	if len(in) > limit {
		return in[:limit]
	}
	return in
}
