package modelserve

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eucarpredict/valuation-engine/pkg/fn"
)

func fastOpts() HTTPOptions {
	opts := DefaultHTTPOptions()
	opts.Retry = fn.RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	return opts
}

func TestHTTPPredictor_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var req PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Features) != 2 || req.Features[0] != 17 {
			t.Errorf("unexpected features %v", req.Features)
		}
		json.NewEncoder(w).Encode(PredictResponse{Prediction: 8.75})
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, fastOpts())
	got, err := p.Predict(context.Background(), []float64{17, 301})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 8.75 {
		t.Errorf("prediction = %g, want 8.75", got)
	}
}

func TestHTTPPredictor_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PredictResponse{Error: "bad vector shape"})
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, fastOpts())
	_, err := p.Predict(context.Background(), []float64{1})
	if err == nil || !strings.Contains(err.Error(), "bad vector shape") {
		t.Errorf("expected the server's error message, got %v", err)
	}
}

func TestHTTPPredictor_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, fastOpts())
	if _, err := p.Predict(context.Background(), []float64{1}); err == nil {
		t.Error("expected error on 503")
	}
}

func TestHTTPPredictor_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(PredictResponse{Prediction: 1.5})
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, fastOpts())
	got, err := p.Predict(context.Background(), []float64{1})
	if err != nil {
		t.Fatalf("expected recovery on third attempt: %v", err)
	}
	if got != 1.5 {
		t.Errorf("prediction = %g, want 1.5", got)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestHTTPPredictor_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The server only cancels r.Context() on client disconnect once the
		// request body has been consumed; without this drain the handler never
		// unblocks and srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, fastOpts())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Predict(ctx, []float64{1}); err == nil {
		t.Error("expected error after context deadline")
	}
}
