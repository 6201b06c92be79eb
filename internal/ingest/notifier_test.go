package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

type capture struct {
	mu   sync.Mutex
	jobs []Job
}

func (c *capture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var job Job
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.jobs = append(c.jobs, job)
		c.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func (c *capture) wait(t *testing.T, n int) []Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.jobs) >= n {
			out := append([]Job(nil), c.jobs...)
			c.mu.Unlock()
			return out
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries", n)
	return nil
}

func TestNotifyResultsBatches(t *testing.T) {
	t.Parallel()
	sink := &capture{}
	srv := httptest.NewServer(sink.handler())
	defer srv.Close()

	n := New(config.IngestConfig{BaseURL: srv.URL, APIKey: "k", QueueSize: 16}, quietLogger())
	defer n.Close()

	results := search.Results{
		Species: []search.SpeciesRecord{
			{ID: "1", ScientificName: "Ganoderma lucidum", Provenance: search.ProvenanceMindex},
			{ID: "2", ScientificName: "Ganoderma tsugae", Provenance: search.ProvenanceINaturalist},
		},
		Genetics: []search.GeneticsRecord{
			{ID: "g1", Accession: "MN901234.1"},
			{ID: "g2"}, // no accession, skipped
		},
		Compounds: []search.CompoundRecord{
			{Name: "Ganoderic acid A", Provenance: search.ProvenanceMindex},
			{Name: "Ganoderic acid B", Provenance: search.ProvenancePubChem},
		},
	}
	n.NotifyResults(results)

	jobs := sink.wait(t, 3)
	byKind := map[string]Job{}
	ids := map[string]bool{}
	for _, j := range jobs {
		byKind[j.Kind] = j
		if j.ID == "" || ids[j.ID] {
			t.Fatalf("jobs need distinct ids, got %+v", jobs)
		}
		ids[j.ID] = true
	}
	sp := byKind["species"]
	if len(sp.Records) != 1 || sp.Records[0].ScientificName != "Ganoderma tsugae" {
		t.Fatalf("only externally-sourced species should backfill: %+v", sp)
	}
	acc := byKind["accessions"]
	if len(acc.Names) != 1 || acc.Names[0] != "MN901234.1" {
		t.Fatalf("accessions job: %+v", acc)
	}
	cmp := byKind["compounds"]
	if len(cmp.Names) != 1 || cmp.Names[0] != "Ganoderic acid B" {
		t.Fatalf("only non-primary compounds should backfill: %+v", cmp)
	}
}

func TestNotifyResultsBatchCaps(t *testing.T) {
	t.Parallel()
	sink := &capture{}
	srv := httptest.NewServer(sink.handler())
	defer srv.Close()

	n := New(config.IngestConfig{BaseURL: srv.URL, QueueSize: 16}, quietLogger())
	defer n.Close()

	var results search.Results
	for i := 0; i < 40; i++ {
		results.Species = append(results.Species, search.SpeciesRecord{
			ID:             fmt.Sprintf("sp-%d", i),
			ScientificName: fmt.Sprintf("Species %d", i),
			Provenance:     search.ProvenanceINaturalist,
		})
		results.Genetics = append(results.Genetics, search.GeneticsRecord{
			Accession: fmt.Sprintf("AC%06d.1", i),
		})
	}
	n.NotifyResults(results)

	jobs := sink.wait(t, 2)
	for _, j := range jobs {
		switch j.Kind {
		case "species":
			if len(j.Records) != maxSpeciesPerBatch {
				t.Errorf("species batch = %d, want %d", len(j.Records), maxSpeciesPerBatch)
			}
		case "accessions":
			if len(j.Names) != maxAccessionsPerBatch {
				t.Errorf("accessions batch = %d, want %d", len(j.Names), maxAccessionsPerBatch)
			}
		}
	}
}

func TestQueueDropsOldestOnOverflow(t *testing.T) {
	t.Parallel()
	// no base URL: jobs queue but deliver() becomes a no-op, so the
	// worker drains instantly. Close first so the queue only fills.
	n := New(config.IngestConfig{QueueSize: 3}, quietLogger())
	n.Close()

	// Close marks the notifier closed; submit must refuse new jobs
	n.submit(Job{Kind: "species"})
	if n.Pending() != 0 {
		t.Fatalf("closed notifier accepted a job")
	}

	n2 := &Notifier{
		cfg:    config.IngestConfig{QueueSize: 3},
		logger: quietLogger(),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	// worker intentionally not started: the queue can only grow
	for i := 0; i < 5; i++ {
		n2.submit(Job{Kind: "species", Names: []string{fmt.Sprintf("%d", i)}})
	}
	if n2.Pending() != 3 {
		t.Fatalf("queue depth = %d, want bound 3", n2.Pending())
	}
	if n2.Dropped() != 2 {
		t.Fatalf("dropped = %d, want 2", n2.Dropped())
	}
	n2.mu.Lock()
	oldest := n2.queue[0].Names[0]
	n2.mu.Unlock()
	if oldest != "2" {
		t.Fatalf("overflow must drop the oldest jobs, head = %q", oldest)
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(config.IngestConfig{BaseURL: srv.URL, QueueSize: 4}, quietLogger())
	defer n.Close()

	n.NotifyResults(search.Results{Genetics: []search.GeneticsRecord{{Accession: "X1.1"}}})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && n.Pending() > 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if n.Pending() != 0 {
		t.Fatalf("failed delivery must not wedge the queue")
	}
}
