package search

import (
	"context"
	"log"
	"time"
)

// Cache is the response cache the service consults before fanning out.
// Implementations live in internal/cache.
type Cache interface {
	Get(ctx context.Context, key string) (AggregateResult, bool)
	Set(ctx context.Context, key string, result AggregateResult)
}

// Answerer produces the optional natural-language answer. A nil return
// means no answer; the service never treats that as an error.
type Answerer interface {
	Answer(ctx context.Context, query string, results Results) *AIAnswer
}

// Notifier receives reconciled results for background backfill.
type Notifier interface {
	NotifyResults(results Results)
}

// Service runs the full search pipeline: normalize, cache lookup, fan-out,
// reconcile, cache write, optional AI augmentation, ingestion notify.
type Service struct {
	orch     *Orchestrator
	cache    Cache
	answerer Answerer
	notifier Notifier
	logger   *log.Logger

	now func() time.Time
}

func NewService(orch *Orchestrator, cache Cache, answerer Answerer, notifier Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	return &Service{
		orch:     orch,
		cache:    cache,
		answerer: answerer,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Search answers one normalized query. It never returns an error: upstream
// failures degrade to partial or empty lists, and only a defect in the
// pipeline itself can escape (as a panic the HTTP layer converts to a
// fallback response).
func (s *Service) Search(ctx context.Context, q Query) AggregateResult {
	started := s.now()

	if !q.Valid() {
		result := EmptyResult(q.Term, OriginLive)
		result.Timing.Total = time.Since(started).Milliseconds()
		return result
	}

	key := q.CacheKey()
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			cached.Source = OriginCache
			cached.Timing.Total = time.Since(started).Milliseconds()
			return cached
		}
	}

	g := s.orch.gather(ctx, q)
	results := reconcile(q, g)

	result := AggregateResult{
		Query:      q.Term,
		Results:    results,
		TotalCount: len(results.Species) + len(results.Compounds) + len(results.Genetics) + len(results.Research),
		Timing:     Timing{Mindex: g.primaryMillis},
		Source:     OriginLive,
	}
	if result.TotalCount == 0 && g.allFailed() {
		result.Source = OriginFallback
		result.Error = "all upstream sources unavailable"
	}

	if s.notifier != nil && result.TotalCount > 0 {
		s.notifier.NotifyResults(results)
	}

	result.Timing.Total = time.Since(started).Milliseconds()

	// The cache key ignores the ai flag, so the stored entry never carries
	// an answer; augmentation applies to the live response only. Outage
	// responses are never cached: the next request should retry upstream.
	if s.cache != nil && result.Source == OriginLive {
		s.cache.Set(ctx, key, result)
	}

	if q.AI && s.answerer != nil && result.TotalCount > 0 {
		result.AIAnswer = s.answerer.Answer(ctx, q.Term, results)
		result.Timing.Total = time.Since(started).Milliseconds()
	}
	return result
}
