package search

import "strings"

// commonNames maps vernacular names to scientific names. Lookup is
// case-insensitive and tolerates the common name appearing inside a longer
// query ("reishi mushroom benefits" still resolves).
var commonNames = map[string]string{
	"reishi":           "Ganoderma lucidum",
	"lingzhi":          "Ganoderma lucidum",
	"lion's mane":      "Hericium erinaceus",
	"lions mane":       "Hericium erinaceus",
	"fly agaric":       "Amanita muscaria",
	"turkey tail":      "Trametes versicolor",
	"chaga":            "Inonotus obliquus",
	"shiitake":         "Lentinula edodes",
	"oyster":           "Pleurotus ostreatus",
	"cordyceps":        "Cordyceps militaris",
	"maitake":          "Grifola frondosa",
	"enoki":            "Flammulina velutipes",
	"king bolete":      "Boletus edulis",
	"porcini":          "Boletus edulis",
	"death cap":        "Amanita phalloides",
	"destroying angel": "Amanita bisporigera",
}

// knownCompounds is the set of bioactive compound names the normalizer
// recognises directly in a query.
var knownCompounds = map[string]bool{
	"psilocybin":     true,
	"psilocin":       true,
	"muscimol":       true,
	"ibotenic acid":  true,
	"ganoderic acid": true,
	"hericenone":     true,
	"erinacine":      true,
	"cordycepin":     true,
	"ergothioneine":  true,
	"beta-glucan":    true,
	"lovastatin":     true,
	"amatoxin":       true,
}

// speciesBioactives maps a scientific name to its curated bioactive
// compounds, at most four per species.
var speciesBioactives = map[string][]string{
	"ganoderma lucidum":   {"Ganoderic acid A", "Ganoderic acid B", "Lucidenic acid", "Ergosterol"},
	"hericium erinaceus":  {"Hericenone B", "Erinacine A", "Ergothioneine"},
	"amanita muscaria":    {"Muscimol", "Ibotenic acid", "Muscarine"},
	"trametes versicolor": {"Polysaccharide-K", "Polysaccharopeptide"},
	"inonotus obliquus":   {"Betulinic acid", "Inotodiol", "Ergosterol peroxide"},
	"cordyceps militaris": {"Cordycepin", "Adenosine", "Ergothioneine"},
	"lentinula edodes":    {"Lentinan", "Eritadenine", "Ergothioneine"},
	"pleurotus ostreatus": {"Lovastatin", "Pleuran", "Ergothioneine"},
	"psilocybe cubensis":  {"Psilocybin", "Psilocin", "Baeocystin"},
}

// compoundTaxa maps a compound name to the taxon known to produce it. The
// value is used as a taxon search term against the citizen-science provider.
var compoundTaxa = map[string]string{
	"psilocybin":     "Psilocybe",
	"psilocin":       "Psilocybe",
	"baeocystin":     "Psilocybe",
	"muscimol":       "Amanita muscaria",
	"ibotenic acid":  "Amanita muscaria",
	"ganoderic acid": "Ganoderma",
	"hericenone":     "Hericium erinaceus",
	"erinacine":      "Hericium erinaceus",
	"cordycepin":     "Cordyceps",
	"lentinan":       "Lentinula edodes",
	"amatoxin":       "Amanita",
	"lovastatin":     "Pleurotus ostreatus",
}

// chemical-name suffixes stripped by the genus heuristic, longest first so
// "-ine" wins over "-in"
var compoundSuffixes = []string{"ine", "oid", "ate", "ide", "one", "ol", "an", "in"}

// ResolveCommonName returns the scientific name for a query that contains a
// known vernacular name, or "" when nothing matches.
func ResolveCommonName(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if sci, ok := commonNames[q]; ok {
		return sci
	}
	for common, sci := range commonNames {
		if strings.Contains(q, common) {
			return sci
		}
	}
	return ""
}

// IsKnownCompound reports whether the query names a recognised bioactive.
func IsKnownCompound(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if knownCompounds[q] {
		return true
	}
	for name := range knownCompounds {
		if strings.Contains(q, name) {
			return true
		}
	}
	return false
}

// BioactivesFor returns the curated compound names for a scientific name,
// capped at four.
func BioactivesFor(scientificName string) []string {
	names := speciesBioactives[strings.ToLower(strings.TrimSpace(scientificName))]
	if len(names) > 4 {
		names = names[:4]
	}
	return names
}

// TaxonForCompound resolves a compound to its curated producing taxon.
// The bool reports whether the curated table had an entry; callers fall
// back to GenusFromCompound otherwise.
func TaxonForCompound(compound string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(compound))
	if taxon, ok := compoundTaxa[c]; ok {
		return taxon, true
	}
	for name, taxon := range compoundTaxa {
		if strings.Contains(c, name) {
			return taxon, true
		}
	}
	return "", false
}

// GenusFromCompound derives a candidate genus by stripping common chemical
// suffixes from a compound name. Best-effort tier only: many compound names
// are eponymous with their producing genus (psilocybin -> Psilocyb[e],
// cordycepin -> Cordycep[s]), so the stem is a usable taxon search term.
func GenusFromCompound(compound string) string {
	c := strings.ToLower(strings.TrimSpace(compound))
	if i := strings.IndexByte(c, ' '); i > 0 {
		c = c[:i]
	}
	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(c, suffix) && len(c) > len(suffix)+3 {
			stem := c[:len(c)-len(suffix)]
			return strings.ToUpper(stem[:1]) + stem[1:]
		}
	}
	return ""
}
