package pubchem

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

func TestCompoundDecode(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/compound/name/psilocybin/property/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		// current API reports MolecularWeight as a string
		w.Write([]byte(`{"PropertyTable":{"Properties":[{
			"CID": 10624,
			"MolecularFormula": "C12H17N2O4P",
			"MolecularWeight": "284.25",
			"CanonicalSMILES": "CN(C)CCc1c[nH]c2cccc(OP(=O)(O)O)c12"
		}]}}`))
	}))
	defer srv.Close()

	c := New(config.PubChemConfig{BaseURL: srv.URL})
	rec, err := c.Compound(context.Background(), "psilocybin")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if rec.ID != "pubchem-10624" || rec.Name != "psilocybin" {
		t.Fatalf("record: %+v", rec)
	}
	if rec.Formula != "C12H17N2O4P" {
		t.Fatalf("formula = %q", rec.Formula)
	}
	if rec.MolecularWeight != 284.25 {
		t.Fatalf("string molecular weight not parsed: %v", rec.MolecularWeight)
	}
	if rec.StructureNotation == "" {
		t.Fatalf("missing structure notation")
	}
	if rec.Provenance != search.ProvenancePubChem {
		t.Fatalf("provenance = %q", rec.Provenance)
	}
}

func TestCompoundNumericWeight(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"PropertyTable":{"Properties":[{
			"CID": 5281576,
			"MolecularFormula": "C30H44O7",
			"MolecularWeight": 516.7,
			"InChI": "InChI=1S/..."
		}]}}`))
	}))
	defer srv.Close()

	c := New(config.PubChemConfig{BaseURL: srv.URL})
	rec, err := c.Compound(context.Background(), "Ganoderic acid A")
	if err != nil {
		t.Fatalf("Compound: %v", err)
	}
	if rec.MolecularWeight != 516.7 {
		t.Fatalf("numeric molecular weight not parsed: %v", rec.MolecularWeight)
	}
	// InChI is the notation fallback when no SMILES field is present
	if !strings.HasPrefix(rec.StructureNotation, "InChI=") {
		t.Fatalf("notation = %q", rec.StructureNotation)
	}
}

func TestCompoundNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Fault":{"Code":"PUGREST.NotFound"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(config.PubChemConfig{BaseURL: srv.URL})
	if _, err := c.Compound(context.Background(), "notachemical"); err == nil {
		t.Fatalf("expected error on 404")
	}
}

func TestCompoundEmptyProperties(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"PropertyTable":{"Properties":[]}}`))
	}))
	defer srv.Close()

	c := New(config.PubChemConfig{BaseURL: srv.URL})
	if _, err := c.Compound(context.Background(), "mystery"); err == nil {
		t.Fatalf("expected error on empty property table")
	}
}
