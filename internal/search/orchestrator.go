package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Upstream source contracts, satisfied by the provider clients. The
// orchestrator only ever sees these, so tests swap in fakes.

type PrimarySource interface {
	Unified(ctx context.Context, query string, limit int) (Results, error)
}

type TaxaSource interface {
	SearchTaxa(ctx context.Context, query string, limit int, kingdom string) ([]SpeciesRecord, error)
}

type CompoundSource interface {
	Compound(ctx context.Context, name string) (CompoundRecord, error)
}

type NucleotideSource interface {
	SearchNucleotide(ctx context.Context, term string, limit int) ([]GeneticsRecord, error)
}

type WorksSource interface {
	SearchWorks(ctx context.Context, query string, limit int) ([]ResearchRecord, error)
}

// Sources bundles every adapter the orchestrator can invoke. Any field may
// be nil; its invocations are simply skipped.
type Sources struct {
	Primary     PrimarySource
	Taxa        TaxaSource
	Compounds   CompoundSource
	Nucleotide  NucleotideSource
	Works       WorksSource
	WorksBackup WorksSource

	// TaxonForCompound fallback, swappable for tests; defaults to the
	// suffix-stripping heuristic.
	GenusHeuristic func(compound string) string
}

// gathered holds every raw per-source list from one fan-out. Each slot is
// written by exactly one goroutine, so merge order never depends on
// completion order.
type gathered struct {
	primary       Results
	primaryMillis int64

	// outage accounting: attempted counts every invoked source, failed the
	// ones that returned an error
	attempted int32
	failed    int32

	citizenSpecies  []SpeciesRecord
	derivedSpecies  []SpeciesRecord  // compound -> producing species
	targetCompounds []CompoundRecord // species -> curated bioactives
	archive         []GeneticsRecord
	works           []ResearchRecord
	worksBackup     []ResearchRecord
}

// allFailed reports a total outage: every invoked source errored. Only
// meaningful once the fan-out has been joined.
func (g *gathered) allFailed() bool {
	return g.attempted > 0 && g.failed == g.attempted
}

// Orchestrator fans a normalized query out to every applicable adapter
// concurrently and collects whatever came back. Failures are isolated: a
// slow or dead source costs its own slot, nothing else.
type Orchestrator struct {
	sources Sources
	logger  *log.Logger

	// OnFailure, when set, is called with the source name for every failed
	// invocation. The server layer hangs a metrics counter off it.
	OnFailure func(source string)
}

func NewOrchestrator(sources Sources, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	if sources.GenusHeuristic == nil {
		sources.GenusHeuristic = GenusFromCompound
	}
	return &Orchestrator{sources: sources, logger: logger}
}

func (o *Orchestrator) gather(ctx context.Context, q Query) *gathered {
	g := &gathered{}
	var wg sync.WaitGroup

	run := func(name string, fn func() error) {
		wg.Add(1)
		atomic.AddInt32(&g.attempted, 1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				atomic.AddInt32(&g.failed, 1)
				o.logger.Printf("source %s failed for %q: %v", name, q.Term, err)
				if o.OnFailure != nil {
					o.OnFailure(name)
				}
			}
		}()
	}

	// Primary database serves every category in one call.
	if o.sources.Primary != nil {
		run("mindex", func() error {
			started := time.Now()
			res, err := o.sources.Primary.Unified(ctx, q.Term, q.Limit)
			g.primaryMillis = time.Since(started).Milliseconds()
			if err != nil {
				return err
			}
			g.primary = res
			return nil
		})
	}

	speciesTerm := q.Term
	if q.ResolvedScientificName != "" {
		speciesTerm = q.ResolvedScientificName
	}

	if q.HasCategory(CategorySpecies) && o.sources.Taxa != nil {
		run("inaturalist", func() error {
			recs, err := o.sources.Taxa.SearchTaxa(ctx, speciesTerm, q.Limit, "")
			if err != nil {
				return err
			}
			g.citizenSpecies = recs
			return nil
		})

		if q.IsKnownCompound {
			run("compound-species", func() error {
				recs, err := o.speciesForCompound(ctx, q)
				if err != nil {
					return err
				}
				g.derivedSpecies = recs
				return nil
			})
		}
	}

	if q.HasCategory(CategoryCompounds) && o.sources.Compounds != nil && q.ResolvedScientificName != "" {
		run("species-compounds", func() error {
			g.targetCompounds = o.compoundsForSpecies(ctx, q.ResolvedScientificName)
			return nil
		})
	}

	if q.HasCategory(CategoryGenetics) && o.sources.Nucleotide != nil {
		run("genbank", func() error {
			recs, err := o.sources.Nucleotide.SearchNucleotide(ctx, speciesTerm, min(q.Limit, 10))
			if err != nil {
				return err
			}
			g.archive = recs
			return nil
		})
	}

	if q.HasCategory(CategoryResearch) {
		if o.sources.Works != nil {
			run("crossref", func() error {
				recs, err := o.sources.Works.SearchWorks(ctx, q.Term, q.Limit)
				if err != nil {
					return err
				}
				g.works = recs
				return nil
			})
		}
		if o.sources.WorksBackup != nil {
			run("openalex", func() error {
				recs, err := o.sources.WorksBackup.SearchWorks(ctx, q.Term, q.Limit)
				if err != nil {
					return err
				}
				g.worksBackup = recs
				return nil
			})
		}
	}

	wg.Wait()
	return g
}

// compoundsForSpecies is the species-to-compound adapter: curated bioactive
// names for the resolved species, structural data fetched in parallel,
// at most four compounds returned.
func (o *Orchestrator) compoundsForSpecies(ctx context.Context, scientificName string) []CompoundRecord {
	names := BioactivesFor(scientificName)
	if len(names) == 0 {
		return nil
	}

	results := make([]*CompoundRecord, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			rec, err := o.sources.Compounds.Compound(ctx, name)
			if err != nil {
				o.logger.Printf("compound lookup %q failed: %v", name, err)
				// structural lookup is best-effort: keep the curated name
				rec = CompoundRecord{ID: "cmp-" + strings.ToLower(strings.ReplaceAll(name, " ", "-")), Name: name, Provenance: ProvenancePubChem}
			}
			rec.SourceSpecies = appendMissing(rec.SourceSpecies, scientificName)
			results[i] = &rec
		}(i, name)
	}
	wg.Wait()

	out := make([]CompoundRecord, 0, len(names))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// speciesForCompound is the compound-to-species adapter: curated
// compound->taxon table first, suffix-stripping genus heuristic second,
// then a fungal-kingdom taxon search for the candidate.
func (o *Orchestrator) speciesForCompound(ctx context.Context, q Query) ([]SpeciesRecord, error) {
	taxon, ok := TaxonForCompound(q.Term)
	if !ok {
		taxon = o.sources.GenusHeuristic(q.Term)
	}
	if taxon == "" {
		return nil, nil
	}

	recs, err := o.sources.Taxa.SearchTaxa(ctx, taxon, min(q.Limit, 10), "Fungi")
	if err != nil {
		return nil, err
	}
	out := make([]SpeciesRecord, 0, len(recs))
	for _, r := range recs {
		r.DerivedFrom = q.Term
		out = append(out, r)
	}
	return out, nil
}

func appendMissing(list []string, v string) []string {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return list
		}
	}
	return append(list, v)
}
