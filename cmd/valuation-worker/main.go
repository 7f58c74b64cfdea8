// Package main implements the prediction bridge: it answers NATS
// request/reply predict subjects by proxying to the HTTP model server, so
// API instances can reach the regressors without a direct model-server
// route.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/nats-io/nats.go"

	"github.com/eucarpredict/valuation-engine/engine/valuation"
	"github.com/eucarpredict/valuation-engine/pkg/modelserve"
	"github.com/eucarpredict/valuation-engine/pkg/natsutil"
)

// Config holds all environment-based configuration.
type Config struct {
	NATSURL       string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	TechSubject   string `envconfig:"TECH_PREDICT_SUBJECT" default:"valuation.predict.tech"`
	BrandSubject  string `envconfig:"BRAND_PREDICT_SUBJECT" default:"valuation.predict.brand"`
	TechModelURL  string `envconfig:"TECH_MODEL_URL" default:"http://localhost:9000/models/tech/predict"`
	BrandModelURL string `envconfig:"BRAND_MODEL_URL" default:"http://localhost:9000/models/brand/predict"`
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

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("valuation-worker"))
	if err != nil {
		logger.Error("nats connect", "url", cfg.NATSURL, "err", err)
		os.Exit(1)
	}
	defer nc.Close()

	opts := modelserve.DefaultHTTPOptions()
	subjects := map[string]valuation.Predictor{
		cfg.TechSubject:  modelserve.NewHTTP(cfg.TechModelURL, opts),
		cfg.BrandSubject: modelserve.NewHTTP(cfg.BrandModelURL, opts),
	}

	for subject, predictor := range subjects {
		sub, err := natsutil.Serve(nc, subject, serveHandler(subject, predictor, logger))
		if err != nil {
			logger.Error("subscribe", "subject", subject, "err", err)
			os.Exit(1)
		}
		defer sub.Unsubscribe()
		logger.Info("serving predictions", "subject", subject)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutdown signal received")
}

// serveHandler answers one predict subject. Predictor errors travel back in
// the response body so the requester fails the single request instead of
// timing out.
func serveHandler(subject string, p valuation.Predictor, logger *slog.Logger) func(context.Context, modelserve.PredictRequest) (modelserve.PredictResponse, error) {
	return func(ctx context.Context, req modelserve.PredictRequest) (modelserve.PredictResponse, error) {
		prediction, err := p.Predict(ctx, req.Features)
		if err != nil {
			logger.Warn("prediction failed", "subject", subject, "vector_len", len(req.Features), "err", err)
			return modelserve.PredictResponse{Error: err.Error()}, nil
		}
		return modelserve.PredictResponse{Prediction: prediction}, nil
	}
}
