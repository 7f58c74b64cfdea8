// Package main implements the valuation API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eucarpredict/valuation-engine/engine/comparables"
	"github.com/eucarpredict/valuation-engine/engine/encoding"
	"github.com/eucarpredict/valuation-engine/engine/valuation"
	"github.com/eucarpredict/valuation-engine/pkg/mid"
	"github.com/eucarpredict/valuation-engine/pkg/modelserve"
	"github.com/eucarpredict/valuation-engine/pkg/natsutil"
)

// Config holds all environment-based configuration.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	MappingsPath  string `envconfig:"MAPPINGS_PATH" default:"mappings.json"`
	TechModelURL  string `envconfig:"TECH_MODEL_URL" default:"http://localhost:9000/models/tech/predict"`
	BrandModelURL string `envconfig:"BRAND_MODEL_URL" default:"http://localhost:9000/models/brand/predict"`

	// Transport selects how the regressors are reached: "http" goes straight
	// to the model server, "nats" uses request/reply via valuation-worker.
	Transport    string `envconfig:"PREDICT_TRANSPORT" default:"http"`
	NATSURL      string `envconfig:"NATS_URL" default:""`
	TechSubject  string `envconfig:"TECH_PREDICT_SUBJECT" default:"valuation.predict.tech"`
	BrandSubject string `envconfig:"BRAND_PREDICT_SUBJECT" default:"valuation.predict.brand"`
	EventSubject string `envconfig:"VALUATION_EVENT_SUBJECT" default:"valuation.completed"`

	// Optional Neo4j-backed encoding catalog; the mappings file is used
	// when unset.
	Neo4jURL  string `envconfig:"NEO4J_URL" default:""`
	Neo4jUser string `envconfig:"NEO4J_USER" default:"neo4j"`
	Neo4jPass string `envconfig:"NEO4J_PASS" default:"password"`

	// Optional Qdrant-backed comparables index.
	QdrantURL  string `envconfig:"QDRANT_URL" default:""`
	Collection string `envconfig:"QDRANT_COLLECTION" default:"listings"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Encoding catalog (loaded once, immutable afterwards) ---
	table, err := loadTable(ctx, cfg, logger)
	if err != nil {
		return err
	}
	nb, nm := table.Len()
	logger.Info("encoding catalog loaded", "brands", nb, "models", nm)

	// --- NATS (predictor transport and/or valuation events) ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL, nats.Name("valuation-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()
	}

	// --- Pre-trained regressors (opaque, invoked over a transport) ---
	tech, brand, err := buildPredictors(cfg, nc)
	if err != nil {
		return err
	}

	svc := valuation.New(table, tech, brand, logger)
	if nc != nil {
		svc = svc.WithEvents(&natsEvents{nc: nc, subject: cfg.EventSubject})
	}

	// --- Optional comparables index ---
	var comps *comparables.Store
	if cfg.QdrantURL != "" {
		comps, err = comparables.New(cfg.QdrantURL, cfg.Collection)
		if err != nil {
			return fmt.Errorf("qdrant connect: %w", err)
		}
		defer comps.Close()
		if err := comps.EnsureCollection(ctx); err != nil {
			return fmt.Errorf("qdrant collection: %w", err)
		}
	}

	// --- HTTP server ---
	api := &apiServer{svc: svc, comps: comps, logger: logger}

	handler := mid.Chain(newRouter(api),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("valuation-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("valuation api starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func newRouter(api *apiServer) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/health", api.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/brands", api.handleBrands).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/brands/{brand}/models", api.handleModels).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/valuations", api.handleValuation).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/listings", api.handleIndexListings).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// loadTable builds the encoding catalog from Neo4j when configured, else
// from the mappings file. A missing file is not fatal: the catalog stays
// empty and every request must carry manual encoding overrides.
func loadTable(ctx context.Context, cfg Config, logger *slog.Logger) (*encoding.Table, error) {
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return nil, fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(ctx)
		return encoding.LoadGraph(ctx, driver)
	}

	table, err := encoding.LoadFile(cfg.MappingsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("mappings file not found, manual encoding required", "path", cfg.MappingsPath)
			return encoding.NewTable(nil, nil), nil
		}
		return nil, err
	}
	return table, nil
}

func buildPredictors(cfg Config, nc *nats.Conn) (tech, brand valuation.Predictor, err error) {
	switch cfg.Transport {
	case "nats":
		if nc == nil {
			return nil, nil, fmt.Errorf("PREDICT_TRANSPORT=nats requires NATS_URL")
		}
		tech = modelserve.NewNATS(nc, cfg.TechSubject, 5*time.Second)
		brand = modelserve.NewNATS(nc, cfg.BrandSubject, 5*time.Second)
	case "http":
		opts := modelserve.DefaultHTTPOptions()
		tech = modelserve.NewHTTP(cfg.TechModelURL, opts)
		brand = modelserve.NewHTTP(cfg.BrandModelURL, opts)
	default:
		return nil, nil, fmt.Errorf("unknown PREDICT_TRANSPORT %q", cfg.Transport)
	}
	return tech, brand, nil
}

// natsEvents publishes completed valuations to NATS.
type natsEvents struct {
	nc      *nats.Conn
	subject string
}

func (p *natsEvents) Publish(ctx context.Context, e valuation.Event) error {
	return natsutil.Publish(ctx, p.nc, p.subject, e)
}
