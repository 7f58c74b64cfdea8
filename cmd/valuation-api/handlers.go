package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/eucarpredict/valuation-engine/engine/comparables"
	"github.com/eucarpredict/valuation-engine/engine/domain"
	"github.com/eucarpredict/valuation-engine/engine/features"
	"github.com/eucarpredict/valuation-engine/engine/power"
	"github.com/eucarpredict/valuation-engine/engine/valuation"
)

type apiServer struct {
	svc    *valuation.Service
	comps  *comparables.Store
	logger *slog.Logger
}

// ValuationResponse is the JSON response for POST /api/v1/valuations.
type ValuationResponse struct {
	Estimate    *valuation.Estimate `json:"estimate"`
	Comparables []comparables.Match `json:"comparables,omitempty"`
}

func (a *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) handleBrands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Table().Brands())
}

func (a *apiServer) handleModels(w http.ResponseWriter, r *http.Request) {
	brand := mux.Vars(r)["brand"]
	models := a.svc.Table().ModelsFor(brand)
	if len(models) == 0 {
		writeError(w, http.StatusNotFound, "no models found for brand "+brand)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (a *apiServer) handleValuation(w http.ResponseWriter, r *http.Request) {
	var spec domain.VehicleSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	est, err := a.svc.Valuate(ctx, spec)
	if err != nil {
		a.writeValuationError(w, err)
		return
	}

	resp := ValuationResponse{Estimate: est}

	// Nearest reference listings, when the index is configured.
	if n := comparableCount(r); a.comps != nil && n > 0 {
		kw, hp, _ := power.Resolve(spec)
		vec := features.Technical(spec, kw, hp)
		matches, err := a.comps.SearchSimilar(ctx, vec, n, "")
		if err != nil {
			a.logger.Warn("comparables search failed", "err", err)
		} else {
			resp.Comparables = matches
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListingUpload is the JSON shape for indexing one reference listing. The
// embedded spec supplies the attributes the technical vector is built from.
type ListingUpload struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
	domain.VehicleSpec
}

func (a *apiServer) handleIndexListings(w http.ResponseWriter, r *http.Request) {
	if a.comps == nil {
		writeError(w, http.StatusServiceUnavailable, "comparables index not configured")
		return
	}
	var uploads []ListingUpload
	if err := json.NewDecoder(r.Body).Decode(&uploads); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(uploads) == 0 {
		writeError(w, http.StatusBadRequest, "no listings supplied")
		return
	}
	listings, err := listingsFromUploads(uploads)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.comps.Upsert(r.Context(), listings); err != nil {
		a.logger.Error("listing upsert failed", "count", len(listings), "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"indexed": len(listings)})
}

// listingsFromUploads validates each upload and derives its index vector
// the same way a valuation does, so searches compare like with like.
func listingsFromUploads(uploads []ListingUpload) ([]comparables.Listing, error) {
	listings := make([]comparables.Listing, len(uploads))
	for i, u := range uploads {
		if u.ID == "" {
			return nil, fmt.Errorf("listing %d: missing id", i)
		}
		if err := domain.ValidateSpec(u.VehicleSpec); err != nil {
			return nil, fmt.Errorf("listing %s: %w", u.ID, err)
		}
		kw, hp, _ := power.Resolve(u.VehicleSpec)
		listings[i] = comparables.Listing{
			ID:        u.ID,
			Brand:     u.Brand,
			Model:     u.Model,
			Year:      u.Year,
			MileageKM: u.MileageKM,
			Price:     u.Price,
			Vector:    features.Technical(u.VehicleSpec, kw, hp),
		}
	}
	return listings, nil
}

// writeValuationError maps pipeline errors onto HTTP statuses. Unresolved
// encodings are recoverable: the client can retry with brand_code /
// model_code overrides.
func (a *apiServer) writeValuationError(w http.ResponseWriter, err error) {
	var perr *valuation.PredictorError
	switch {
	case errors.Is(err, domain.ErrUnknownBrand), errors.Is(err, domain.ErrUnknownModel):
		writeError(w, http.StatusUnprocessableEntity,
			err.Error()+"; supply brand_code/model_code to override")
	case errors.As(err, &perr):
		a.logger.Error("predictor failure", "model", perr.Model, "vector_len", perr.VectorLen, "err", perr.Err)
		writeError(w, http.StatusBadGateway, perr.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func comparableCount(r *http.Request) int {
	raw := r.URL.Query().Get("comparables")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	if n > 25 {
		n = 25
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
