package modelserve

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/eucarpredict/valuation-engine/pkg/natsutil"
)

// NATSPredictor invokes a regressor served over NATS request/reply, e.g. by
// the valuation-worker bridge.
type NATSPredictor struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

// NewNATS creates a NATSPredictor for the given request subject.
func NewNATS(nc *nats.Conn, subject string, timeout time.Duration) *NATSPredictor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NATSPredictor{nc: nc, subject: subject, timeout: timeout}
}

// Predict implements valuation.Predictor.
func (p *NATSPredictor) Predict(ctx context.Context, vector []float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := natsutil.Request[PredictRequest, PredictResponse](ctx, p.nc, p.subject, PredictRequest{Features: vector})
	if err != nil {
		return 0, fmt.Errorf("modelserve: nats request %s: %w", p.subject, err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("modelserve: server rejected vector: %s", resp.Error)
	}
	return resp.Prediction, nil
}
