package modelserve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eucarpredict/valuation-engine/pkg/fn"
	"github.com/eucarpredict/valuation-engine/pkg/resilience"
)

// HTTPOptions configures an HTTPPredictor.
type HTTPOptions struct {
	Timeout     time.Duration
	RatePerSec  float64
	Burst       int
	Retry       fn.RetryOpts
	BreakerOpts resilience.BreakerOpts
}

// DefaultHTTPOptions returns sensible defaults.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		Timeout:     5 * time.Second,
		RatePerSec:  50,
		Burst:       10,
		Retry:       fn.DefaultRetry,
		BreakerOpts: resilience.DefaultBreakerOpts,
	}
}

// HTTPPredictor invokes a regressor behind a model-serving HTTP endpoint.
// Calls are rate limited, retried with backoff, and guarded by a circuit
// breaker so a failing model server degrades single requests, not the
// process.
type HTTPPredictor struct {
	url     string
	client  *http.Client
	limiter *resilience.Limiter
	breaker *resilience.Breaker
	retry   fn.RetryOpts
}

// NewHTTP creates an HTTPPredictor for the given predict endpoint URL
// (e.g. http://models:9000/models/tech/predict).
func NewHTTP(url string, opts HTTPOptions) *HTTPPredictor {
	return &HTTPPredictor{
		url:     url,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: resilience.NewLimiter(opts.RatePerSec, opts.Burst),
		breaker: resilience.NewBreaker(opts.BreakerOpts),
		retry:   opts.Retry,
	}
}

// Predict implements valuation.Predictor.
func (p *HTTPPredictor) Predict(ctx context.Context, vector []float64) (float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	result := fn.Retry(ctx, p.retry, func(ctx context.Context) fn.Result[float64] {
		var out float64
		err := p.breaker.Call(ctx, func(ctx context.Context) error {
			v, err := p.predictOnce(ctx, vector)
			out = v
			return err
		})
		if errors.Is(err, resilience.ErrCircuitOpen) {
			// No point retrying into an open breaker.
			return fn.Err[float64](err)
		}
		return fn.FromPair(out, err)
	})
	return result.Unwrap()
}

func (p *HTTPPredictor) predictOnce(ctx context.Context, vector []float64) (float64, error) {
	body, err := json.Marshal(PredictRequest{Features: vector})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("modelserve: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("modelserve: %s returned status %d", p.url, resp.StatusCode)
	}

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("modelserve: decode response: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("modelserve: server rejected vector: %s", out.Error)
	}
	return out.Prediction, nil
}
