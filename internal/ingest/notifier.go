// Package ingest backfills externally-sourced records into the primary
// database so future queries hit it directly. Submissions are decoupled
// from the response path: a bounded queue drained by one worker, with
// drop-oldest overflow and discarded errors.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

const (
	maxSpeciesPerBatch    = 15
	maxAccessionsPerBatch = 10
)

// Job is one backfill batch for the persistence collaborator. The ID lets
// the receiver deduplicate redelivered batches.
type Job struct {
	ID      string                 `json:"id"`
	Kind    string                 `json:"kind"` // species | accessions | compounds
	Names   []string               `json:"names,omitempty"`
	Records []search.SpeciesRecord `json:"records,omitempty"`
}

// Notifier owns the submission queue and its worker.
type Notifier struct {
	cfg        config.IngestConfig
	httpClient *http.Client
	logger     *log.Logger

	mu     sync.Mutex
	queue  []Job
	wake   chan struct{}
	done   chan struct{}
	closed bool

	// Dropped counts jobs discarded because the queue was full.
	dropped int
}

func New(cfg config.IngestConfig, logger *log.Logger) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[INGEST] ", log.LstdFlags)
	}
	n := &Notifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	go n.run()
	return n
}

// NotifyResults submits backfill batches for everything in a reconciled
// response that did not come from the primary database. Never blocks.
func (n *Notifier) NotifyResults(results search.Results) {
	var species []search.SpeciesRecord
	for _, sp := range results.Species {
		if sp.Provenance == search.ProvenanceINaturalist {
			species = append(species, sp)
			if len(species) >= maxSpeciesPerBatch {
				break
			}
		}
	}
	if len(species) > 0 {
		n.submit(Job{Kind: "species", Records: species})
	}

	var accessions []string
	for _, g := range results.Genetics {
		if g.Accession != "" {
			accessions = append(accessions, g.Accession)
			if len(accessions) >= maxAccessionsPerBatch {
				break
			}
		}
	}
	if len(accessions) > 0 {
		n.submit(Job{Kind: "accessions", Names: accessions})
	}

	var compounds []string
	for _, c := range results.Compounds {
		if c.Provenance != search.ProvenanceMindex {
			compounds = append(compounds, c.Name)
		}
	}
	if len(compounds) > 0 {
		n.submit(Job{Kind: "compounds", Names: compounds})
	}
}

func (n *Notifier) submit(job Job) {
	job.ID = uuid.NewString()
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	if len(n.queue) >= n.cfg.QueueSize {
		n.queue = n.queue[1:]
		n.dropped++
	}
	n.queue = append(n.queue, job)
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// Dropped reports how many jobs overflowed the queue, for tests and metrics.
func (n *Notifier) Dropped() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

// Pending reports the current queue depth.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// Close stops the worker after the current job. Queued jobs are dropped;
// the backfill is best-effort by contract.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()
	close(n.done)
}

func (n *Notifier) run() {
	for {
		select {
		case <-n.done:
			return
		case <-n.wake:
		}
		for {
			n.mu.Lock()
			if len(n.queue) == 0 {
				n.mu.Unlock()
				break
			}
			job := n.queue[0]
			n.queue = n.queue[1:]
			n.mu.Unlock()

			n.deliver(job)
		}
	}
}

// deliver posts one batch; errors are logged at debug granularity only and
// never surfaced anywhere else.
func (n *Notifier) deliver(job Job) {
	if n.cfg.BaseURL == "" {
		return
	}
	body, err := json.Marshal(job)
	if err != nil {
		return
	}
	url := strings.TrimRight(n.cfg.BaseURL, "/") + "/api/ingest/" + job.Kind
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", n.cfg.APIKey)
	}
	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Printf("backfill %s dropped: %v", job.Kind, err)
		return
	}
	resp.Body.Close()
}
