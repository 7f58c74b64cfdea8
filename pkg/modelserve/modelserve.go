// Package modelserve contains Predictor implementations that invoke the
// externally served, pre-trained regressors. The models stay opaque: one
// fixed-order vector in, one scalar out, over HTTP or NATS.
package modelserve

// PredictRequest is the wire request for a single regressor invocation.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse is the wire response. A non-empty Error means the server
// rejected the vector (wrong length or ordering).
type PredictResponse struct {
	Prediction float64 `json:"prediction"`
	Error      string  `json:"error,omitempty"`
}
