package search

import "time"

// Category names match the public types= query parameter.
const (
	CategorySpecies   = "species"
	CategoryCompounds = "compounds"
	CategoryGenetics  = "genetics"
	CategoryResearch  = "research"
)

// AllCategories in canonical response order.
var AllCategories = []string{CategorySpecies, CategoryCompounds, CategoryGenetics, CategoryResearch}

// Provenance identifies which upstream produced a record. Merge precedence
// is keyed off these values: ProvenanceMindex always wins.
const (
	ProvenanceMindex      = "mindex"
	ProvenanceINaturalist = "inaturalist"
	ProvenancePubChem     = "pubchem"
	ProvenanceEntrez      = "genbank"
	ProvenanceCrossref    = "crossref"
	ProvenanceOpenAlex    = "openalex"
)

// Taxonomy holds the classical ranks; any of them may be empty.
type Taxonomy struct {
	Kingdom string `json:"kingdom,omitempty"`
	Phylum  string `json:"phylum,omitempty"`
	Class   string `json:"class,omitempty"`
	Order   string `json:"order,omitempty"`
	Family  string `json:"family,omitempty"`
	Genus   string `json:"genus,omitempty"`
}

// Photo is one image attached to a species record.
type Photo struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url,omitempty"`
	MediumURL   string `json:"mediumUrl,omitempty"`
	LargeURL    string `json:"largeUrl,omitempty"`
	Attribution string `json:"attribution,omitempty"`
}

// SpeciesRecord is the canonical species shape. Records are immutable once
// an adapter or the reconciler has constructed them.
type SpeciesRecord struct {
	ID               string   `json:"id"`
	ScientificName   string   `json:"scientificName"`
	CommonName       string   `json:"commonName,omitempty"`
	Taxonomy         Taxonomy `json:"taxonomy"`
	Description      string   `json:"description,omitempty"`
	Photos           []Photo  `json:"photos,omitempty"`
	ObservationCount int      `json:"observationCount,omitempty"`
	Rank             string   `json:"rank,omitempty"`
	Provenance       string   `json:"provenance"`
	DerivedFrom      string   `json:"derivedFrom,omitempty"` // compound name, for compound->species hits
}

// CompoundRecord is the canonical bioactive-compound shape.
type CompoundRecord struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Formula            string   `json:"formula,omitempty"`
	MolecularWeight    float64  `json:"molecularWeight,omitempty"`
	ChemicalClass      string   `json:"chemicalClass,omitempty"`
	SourceSpecies      []string `json:"sourceSpecies,omitempty"`
	BiologicalActivity []string `json:"biologicalActivity,omitempty"`
	StructureNotation  string   `json:"structureNotation,omitempty"` // SMILES or InChI
	Provenance         string   `json:"provenance"`
}

// GeneticsRecord is the canonical nucleotide-sequence shape.
type GeneticsRecord struct {
	ID             string  `json:"id"`
	Accession      string  `json:"accession,omitempty"`
	SpeciesName    string  `json:"speciesName,omitempty"`
	GeneRegion     string  `json:"geneRegion,omitempty"`
	SequenceLength int     `json:"sequenceLength,omitempty"`
	GCContent      float64 `json:"gcContent,omitempty"`
	Source         string  `json:"source,omitempty"`
	Provenance     string  `json:"provenance"`
}

// ResearchRecord is the canonical scholarly-work shape.
type ResearchRecord struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors,omitempty"`
	Journal        string   `json:"journal,omitempty"`
	Year           int      `json:"year,omitempty"`
	DOI            string   `json:"doi,omitempty"`
	Abstract       string   `json:"abstract,omitempty"`
	RelatedSpecies []string `json:"relatedSpecies,omitempty"`
	Provenance     string   `json:"provenance"`
}

// Results groups the four reconciled category lists.
type Results struct {
	Species   []SpeciesRecord  `json:"species"`
	Compounds []CompoundRecord `json:"compounds"`
	Genetics  []GeneticsRecord `json:"genetics"`
	Research  []ResearchRecord `json:"research"`
}

// Timing reports wall-clock milliseconds per phase.
type Timing struct {
	Total  int64 `json:"total"`
	Mindex int64 `json:"mindex"`
}

// AIAnswer is the optional language-model augmentation.
type AIAnswer struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Result origins reported in the response "source" field.
const (
	OriginLive     = "live"
	OriginCache    = "cache"
	OriginFallback = "fallback"
)

// AggregateResult is the full reconciled response body.
type AggregateResult struct {
	Query      string    `json:"query"`
	Results    Results   `json:"results"`
	TotalCount int       `json:"totalCount"`
	Timing     Timing    `json:"timing"`
	Source     string    `json:"source"`
	AIAnswer   *AIAnswer `json:"aiAnswer,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// EmptyResult returns a zero-cost result for rejected or failed queries.
func EmptyResult(query, origin string) AggregateResult {
	return AggregateResult{
		Query: query,
		Results: Results{
			Species:   []SpeciesRecord{},
			Compounds: []CompoundRecord{},
			Genetics:  []GeneticsRecord{},
			Research:  []ResearchRecord{},
		},
		Source: origin,
	}
}

// CacheEntry pairs a stored result with its creation time; entries are
// read-only once written and expire after the store's TTL.
type CacheEntry struct {
	Result    AggregateResult `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}
