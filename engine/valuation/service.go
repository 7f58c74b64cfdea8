// Package valuation orchestrates the pricing pipeline: encoding resolution,
// power fallback, feature-vector assembly, and log-space combination of the
// two pre-trained regressors.
package valuation

import (
	"context"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/eucarpredict/valuation-engine/engine/domain"
	"github.com/eucarpredict/valuation-engine/engine/encoding"
	"github.com/eucarpredict/valuation-engine/engine/features"
	"github.com/eucarpredict/valuation-engine/engine/power"
)

// MarketMargin is the displayed uncertainty band around an estimate, in
// currency units. It is a presentation constant, not computed from data.
const MarketMargin = 2000.0

// Estimate is the outcome of a single valuation request.
type Estimate struct {
	Price          float64 `json:"price"`
	RangeLow       float64 `json:"range_low"`
	RangeHigh      float64 `json:"range_high"`
	BrandCode      int     `json:"brand_code"`
	ModelCode      int     `json:"model_code"`
	PowerKW        int     `json:"power_kw"`
	PowerHP        int     `json:"power_hp"`
	PowerEstimated bool    `json:"power_estimated"`
	LogBase        float64 `json:"log_base"`
	LogBrand       float64 `json:"log_brand"`
}

// Service runs valuations against a fixed encoding table and two regressors.
// All fields are set at construction and read-only afterwards, so a single
// Service is safe to share across requests.
type Service struct {
	table  *encoding.Table
	tech   Predictor
	brand  Predictor
	events EventPublisher
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a valuation Service.
func New(table *encoding.Table, tech, brand Predictor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		table:  table,
		tech:   tech,
		brand:  brand,
		logger: logger,
		tracer: otel.Tracer("valuation"),
	}
}

// WithEvents attaches a publisher that receives completed valuations.
func (s *Service) WithEvents(p EventPublisher) *Service {
	s.events = p
	return s
}

// Table exposes the read-only encoding catalog for listing queries.
func (s *Service) Table() *encoding.Table { return s.table }

// ResolveEncoding returns the catalog codes for the spec's brand and model.
// When a name is absent from the catalog the spec's manual override is used;
// without one the lookup fails with domain.ErrUnknownBrand or
// domain.ErrUnknownModel. There is no sentinel default: the regressors must
// never see an unresolved code.
func (s *Service) ResolveEncoding(spec domain.VehicleSpec) (brandCode, modelCode int, err error) {
	brandCode, ok := s.table.BrandCode(spec.Brand)
	if !ok {
		if spec.BrandCode == nil {
			return 0, 0, domain.NewValidationError("brand", spec.Brand, domain.ErrUnknownBrand)
		}
		brandCode = *spec.BrandCode
	}
	modelCode, ok = s.table.ModelCode(spec.Brand, spec.Model)
	if !ok {
		if spec.ModelCode == nil {
			return 0, 0, domain.NewValidationError("model", spec.Model, domain.ErrUnknownModel)
		}
		modelCode = *spec.ModelCode
	}
	return brandCode, modelCode, nil
}

// Valuate runs the full pipeline for one spec. Every error is request
// scoped; the table and predictors are never mutated.
func (s *Service) Valuate(ctx context.Context, spec domain.VehicleSpec) (*Estimate, error) {
	ctx, span := s.tracer.Start(ctx, "valuation.Valuate")
	defer span.End()

	start := time.Now()

	if err := domain.ValidateSpec(spec); err != nil {
		valuationErrors.WithLabelValues("invalid_spec").Inc()
		return nil, err
	}

	brandCode, modelCode, err := s.ResolveEncoding(spec)
	if err != nil {
		valuationErrors.WithLabelValues("unresolved_encoding").Inc()
		return nil, err
	}

	kw, hp, estimated := power.Resolve(spec)

	techVec := features.Technical(spec, kw, hp)
	brandVec := features.Brand(brandCode, modelCode)

	logBase, err := s.tech.Predict(ctx, techVec)
	if err != nil {
		predictorFailures.WithLabelValues("tech").Inc()
		return nil, &PredictorError{Model: "tech", VectorLen: len(techVec), Err: err}
	}
	logBrand, err := s.brand.Predict(ctx, brandVec)
	if err != nil {
		predictorFailures.WithLabelValues("brand").Inc()
		return nil, &PredictorError{Model: "brand", VectorLen: len(brandVec), Err: err}
	}

	price := CombineLogs(logBase, logBrand, spec.Condition)

	est := &Estimate{
		Price:          price,
		RangeLow:       math.Max(0, price-MarketMargin),
		RangeHigh:      price + MarketMargin,
		BrandCode:      brandCode,
		ModelCode:      modelCode,
		PowerKW:        kw,
		PowerHP:        hp,
		PowerEstimated: estimated,
		LogBase:        logBase,
		LogBrand:       logBrand,
	}

	valuationsTotal.Inc()
	valuationDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("valuation complete",
		"brand", spec.Brand,
		"model", spec.Model,
		"year", spec.Year,
		"power_kw", kw,
		"price", price,
	)

	if s.events != nil {
		evt := Event{
			Brand:     spec.Brand,
			Model:     spec.Model,
			Year:      spec.Year,
			Price:     price,
			Condition: spec.Condition,
			At:        time.Now().UTC(),
		}
		if err := s.events.Publish(ctx, evt); err != nil {
			s.logger.Warn("valuation event publish failed", "err", err)
		}
	}

	return est, nil
}

// CombineLogs inverts the log1p transform used during training and applies
// the linear condition multiplier. Expm1 is the exact inverse of log1p;
// plain Exp would skew every price and must not be substituted. The result
// is returned unclamped: only the displayed range is floored at zero.
func CombineLogs(logBase, logBrand, condition float64) float64 {
	return math.Expm1(logBase+logBrand) * condition
}
