package mindex

import (
	"github.com/MycosoftLabs/biosearch/internal/provider"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

func decodeUnified(raw map[string]any) search.Results {
	out := search.Results{
		Species:   []search.SpeciesRecord{},
		Compounds: []search.CompoundRecord{},
		Genetics:  []search.GeneticsRecord{},
		Research:  []search.ResearchRecord{},
	}
	for _, m := range provider.List(raw, "taxa", "species") {
		out.Species = append(out.Species, decodeTaxon(m))
	}
	for _, m := range provider.List(raw, "compounds") {
		out.Compounds = append(out.Compounds, decodeCompound(m))
	}
	for _, m := range provider.List(raw, "genetics", "sequences") {
		out.Genetics = append(out.Genetics, decodeSequence(m))
	}
	for _, m := range provider.List(raw, "research", "papers") {
		out.Research = append(out.Research, decodeWork(m))
	}
	return out
}

func decodeTaxon(m map[string]any) search.SpeciesRecord {
	tax := provider.Obj(m, "taxonomy", "classification")
	rec := search.SpeciesRecord{
		ID:               provider.Str(m, "id", "taxon_id"),
		ScientificName:   provider.Str(m, "scientific_name", "scientificName", "name"),
		CommonName:       provider.Str(m, "common_name", "commonName", "preferred_common_name"),
		Description:      provider.Str(m, "description", "summary"),
		ObservationCount: int(provider.Num(m, "observation_count", "observations_count")),
		Rank:             provider.Str(m, "rank"),
		Provenance:       search.ProvenanceMindex,
	}
	if tax != nil {
		rec.Taxonomy = search.Taxonomy{
			Kingdom: provider.Str(tax, "kingdom"),
			Phylum:  provider.Str(tax, "phylum"),
			Class:   provider.Str(tax, "class"),
			Order:   provider.Str(tax, "order"),
			Family:  provider.Str(tax, "family"),
			Genus:   provider.Str(tax, "genus"),
		}
	} else {
		rec.Taxonomy = search.Taxonomy{
			Kingdom: provider.Str(m, "kingdom"),
			Genus:   provider.Str(m, "genus"),
		}
	}
	for _, p := range provider.List(m, "photos", "images") {
		rec.Photos = append(rec.Photos, search.Photo{
			ID:          provider.Str(p, "id"),
			URL:         provider.Str(p, "url", "square_url"),
			MediumURL:   provider.Str(p, "medium_url", "mediumUrl"),
			LargeURL:    provider.Str(p, "large_url", "largeUrl"),
			Attribution: provider.Str(p, "attribution"),
		})
	}
	return rec
}

func decodeCompound(m map[string]any) search.CompoundRecord {
	return search.CompoundRecord{
		ID:                 provider.Str(m, "id", "compound_id"),
		Name:               provider.Str(m, "name", "compound_name"),
		Formula:            provider.Str(m, "formula", "molecular_formula"),
		MolecularWeight:    provider.Num(m, "molecular_weight", "molecularWeight"),
		ChemicalClass:      provider.Str(m, "chemical_class", "chemicalClass"),
		SourceSpecies:      provider.Strs(m, "source_species", "sourceSpecies"),
		BiologicalActivity: provider.Strs(m, "biological_activity", "activities"),
		StructureNotation:  provider.Str(m, "smiles", "inchi", "structure_notation"),
		Provenance:         search.ProvenanceMindex,
	}
}

func decodeSequence(m map[string]any) search.GeneticsRecord {
	return search.GeneticsRecord{
		ID:             provider.Str(m, "id", "sequence_id"),
		Accession:      provider.Str(m, "accession", "accession_number"),
		SpeciesName:    provider.Str(m, "species_name", "organism", "speciesName"),
		GeneRegion:     provider.Str(m, "gene", "gene_region", "geneRegion"),
		SequenceLength: int(provider.Num(m, "sequence_length", "sequenceLength", "length")),
		GCContent:      provider.Num(m, "gc_content", "gcContent"),
		Source:         provider.Str(m, "source", "database"),
		Provenance:     search.ProvenanceMindex,
	}
}

func decodeWork(m map[string]any) search.ResearchRecord {
	return search.ResearchRecord{
		ID:             provider.Str(m, "id", "work_id"),
		Title:          provider.Str(m, "title"),
		Authors:        provider.Strs(m, "authors"),
		Journal:        provider.Str(m, "journal", "venue"),
		Year:           int(provider.Num(m, "year", "publication_year")),
		DOI:            provider.Str(m, "doi"),
		Abstract:       provider.Str(m, "abstract", "summary"),
		RelatedSpecies: provider.Strs(m, "related_species", "relatedSpecies"),
		Provenance:     search.ProvenanceMindex,
	}
}
