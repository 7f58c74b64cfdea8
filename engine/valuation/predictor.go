package valuation

import (
	"context"
	"fmt"
)

// Predictor is the narrow contract for an opaque pre-trained regressor:
// one fixed-order vector in, one scalar out. The artifacts are supplied
// externally and invoked over a transport (HTTP model server, NATS);
// their internals are never reimplemented here. Implementations must be
// safe for concurrent read-only calls.
type Predictor interface {
	Predict(ctx context.Context, vector []float64) (float64, error)
}

// PredictorFunc adapts a plain function to the Predictor interface.
type PredictorFunc func(ctx context.Context, vector []float64) (float64, error)

// Predict implements Predictor.
func (f PredictorFunc) Predict(ctx context.Context, vector []float64) (float64, error) {
	return f(ctx, vector)
}

// PredictorError reports a failed regressor invocation together with the
// shape of the vector that caused it, for diagnosis. The failure is scoped
// to the single request; shared state is untouched.
type PredictorError struct {
	Model     string // "tech" or "brand"
	VectorLen int
	Err       error
}

func (e *PredictorError) Error() string {
	return fmt.Sprintf("valuation: %s regressor failed on %d-element vector: %v", e.Model, e.VectorLen, e.Err)
}

func (e *PredictorError) Unwrap() error { return e.Err }
