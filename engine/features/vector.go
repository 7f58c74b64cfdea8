// Package features assembles the fixed-order numeric vectors consumed by
// the pre-trained regressors. The field order in each vector is a binding
// contract with the trained models and must never be permuted.
package features

import (
	"strings"

	"github.com/eucarpredict/valuation-engine/engine/domain"
)

// Vector lengths expected by the regressors.
const (
	TechnicalLen = 13
	BrandLen     = 2
)

// Technical builds the 13-element technical vector:
// [year, kW, HP, km, engine, is_automatic, is_manual,
//  is_cng, is_diesel, is_electric, is_hybrid, is_lpg, is_petrol].
// The one-hot flags use exact matches on the normalized strings; a
// transmission matching neither recognised value leaves both flags zero.
func Technical(s domain.VehicleSpec, kw, hp int) []float64 {
	fuel := domain.NormalizeFuel(s.Fuel)
	trans := strings.ToLower(strings.TrimSpace(s.Transmission))
	return []float64{
		float64(s.Year),
		float64(kw),
		float64(hp),
		float64(s.MileageKM),
		s.EngineLiters,
		flag(trans == domain.TransmissionAutomatic),
		flag(trans == domain.TransmissionManual),
		flag(fuel == string(domain.FuelCNG)),
		flag(fuel == string(domain.FuelDiesel)),
		flag(fuel == string(domain.FuelElectric)),
		flag(fuel == string(domain.FuelHybrid)),
		flag(fuel == string(domain.FuelLPG)),
		flag(fuel == string(domain.FuelPetrol)),
	}
}

// Brand builds the 2-element encoding vector [brand_code, model_code].
func Brand(brandCode, modelCode int) []float64 {
	return []float64{float64(brandCode), float64(modelCode)}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
