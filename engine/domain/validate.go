package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateSpec checks a VehicleSpec against the declared input domain.
// Violations are surfaced to the caller, never corrected silently.
// Transmission is deliberately not validated: an unrecognised gearbox string
// one-hot encodes to zeros, which the regressors were trained to accept.
func ValidateSpec(s VehicleSpec) error {
	if s.Year < MinYear || s.Year > MaxYear {
		return NewValidationError("year", strconv.Itoa(s.Year), ErrYearOutOfRange)
	}
	if s.EngineLiters < 0 {
		return NewValidationError("engine_l", fmt.Sprintf("%g", s.EngineLiters), ErrNegativeEngine)
	}
	if !ValidFuelTypes[FuelType(NormalizeFuel(s.Fuel))] {
		return NewValidationError("fuel", s.Fuel, ErrUnknownFuel)
	}
	if s.MileageKM < 0 {
		return NewValidationError("mileage_km", strconv.Itoa(s.MileageKM), ErrNegativeMileage)
	}
	if s.Condition <= 0 || s.Condition > 1 {
		return NewValidationError("condition", fmt.Sprintf("%g", s.Condition), ErrConditionOutOfRange)
	}
	if s.PowerKW < 0 || s.PowerHP < 0 {
		return NewValidationError("power", fmt.Sprintf("%d kW / %d hp", s.PowerKW, s.PowerHP), ErrNegativePower)
	}
	return nil
}

// NormalizeFuel lower-cases and trims a raw fuel string.
func NormalizeFuel(fuel string) string {
	return strings.ToLower(strings.TrimSpace(fuel))
}
