package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MycosoftLabs/biosearch/config"
	"github.com/MycosoftLabs/biosearch/internal/ai"
	"github.com/MycosoftLabs/biosearch/internal/cache/inmemory"
	rediscache "github.com/MycosoftLabs/biosearch/internal/cache/redis"
	"github.com/MycosoftLabs/biosearch/internal/ingest"
	"github.com/MycosoftLabs/biosearch/internal/provider/crossref"
	"github.com/MycosoftLabs/biosearch/internal/provider/entrez"
	"github.com/MycosoftLabs/biosearch/internal/provider/inaturalist"
	"github.com/MycosoftLabs/biosearch/internal/provider/mindex"
	"github.com/MycosoftLabs/biosearch/internal/provider/openalex"
	"github.com/MycosoftLabs/biosearch/internal/provider/pubchem"
	"github.com/MycosoftLabs/biosearch/internal/search"
)

// Run wires every dependency from config and serves the API.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	searchLogger := log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	orch := search.NewOrchestrator(search.Sources{
		Primary:     mindex.New(cfg.Providers.Mindex),
		Taxa:        inaturalist.New(cfg.Providers.INaturalist),
		Compounds:   pubchem.New(cfg.Providers.PubChem),
		Nucleotide:  entrez.New(cfg.Providers.Entrez),
		Works:       crossref.New(cfg.Providers.Crossref),
		WorksBackup: openalex.New(cfg.Providers.OpenAlex),
	}, searchLogger)

	var store search.Cache
	switch cfg.Cache.Backend {
	case "redis":
		client, err := rediscache.Conn(context.Background(), cfg.Cache.Redis)
		if err != nil {
			return err
		}
		store = rediscache.New(client, cfg.Cache.TTL, nil)
	default:
		store = inmemory.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	var answerer search.Answerer
	if cfg.AI.APIKey != "" {
		answerer = ai.New(cfg.AI, nil)
	}

	var notifier search.Notifier
	if cfg.Ingest.BaseURL != "" {
		notifier = ingest.New(cfg.Ingest, nil)
	}

	metrics := NewMetrics()
	orch.OnFailure = func(source string) {
		metrics.SourceFailures.WithLabelValues(source).Inc()
	}

	svc := search.NewService(orch, store, answerer, notifier, searchLogger)

	sh := &SearchHandler{Service: svc, Metrics: metrics}
	sh.Register(e.Group("/api"))

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
