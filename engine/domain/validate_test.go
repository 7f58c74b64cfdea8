package domain

import (
	"errors"
	"testing"
)

func validSpec() VehicleSpec {
	return VehicleSpec{
		Brand:        "Ford",
		Model:        "Mondeo",
		Year:         2020,
		EngineLiters: 1.6,
		Fuel:         "diesel",
		Transmission: "manual",
		MileageKM:    80000,
		Condition:    0.85,
	}
}

func TestValidateSpec_Valid(t *testing.T) {
	cases := []func(*VehicleSpec){
		func(s *VehicleSpec) {},
		func(s *VehicleSpec) { s.Condition = 1.0 },
		func(s *VehicleSpec) { s.Fuel = "Electric " }, // normalized before the enum check
		func(s *VehicleSpec) { s.Transmission = "semi-auto" },
		func(s *VehicleSpec) { s.MileageKM = 0 },
		func(s *VehicleSpec) { s.EngineLiters = 0 },
		func(s *VehicleSpec) { s.PowerKW = 100 },
	}
	for i, mod := range cases {
		s := validSpec()
		mod(&s)
		if err := ValidateSpec(s); err != nil {
			t.Errorf("case %d: expected valid for %+v, got %v", i, s, err)
		}
	}
}

func TestValidateSpec_YearOutOfRange(t *testing.T) {
	for _, year := range []int{1949, 2028, 0, -1} {
		s := validSpec()
		s.Year = year
		if !errors.Is(ValidateSpec(s), ErrYearOutOfRange) {
			t.Errorf("expected ErrYearOutOfRange for year %d", year)
		}
	}
}

func TestValidateSpec_NegativeEngine(t *testing.T) {
	s := validSpec()
	s.EngineLiters = -0.1
	if !errors.Is(ValidateSpec(s), ErrNegativeEngine) {
		t.Error("expected ErrNegativeEngine")
	}
}

func TestValidateSpec_UnknownFuel(t *testing.T) {
	for _, fuel := range []string{"steam", "", "gasoline"} {
		s := validSpec()
		s.Fuel = fuel
		if !errors.Is(ValidateSpec(s), ErrUnknownFuel) {
			t.Errorf("expected ErrUnknownFuel for %q", fuel)
		}
	}
}

func TestValidateSpec_NegativeMileage(t *testing.T) {
	s := validSpec()
	s.MileageKM = -1
	if !errors.Is(ValidateSpec(s), ErrNegativeMileage) {
		t.Error("expected ErrNegativeMileage")
	}
}

func TestValidateSpec_ConditionOutOfRange(t *testing.T) {
	for _, cond := range []float64{0, -0.5, 1.01} {
		s := validSpec()
		s.Condition = cond
		if !errors.Is(ValidateSpec(s), ErrConditionOutOfRange) {
			t.Errorf("expected ErrConditionOutOfRange for %g", cond)
		}
	}
}

func TestValidateSpec_NegativePower(t *testing.T) {
	s := validSpec()
	s.PowerHP = -10
	if !errors.Is(ValidateSpec(s), ErrNegativePower) {
		t.Error("expected ErrNegativePower")
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	ve := NewValidationError("year", "1900", ErrYearOutOfRange)
	if !errors.Is(ve, ErrYearOutOfRange) {
		t.Error("Unwrap should expose ErrYearOutOfRange")
	}
	var target *ValidationError
	if !errors.As(ve, &target) {
		t.Error("errors.As should work for *ValidationError")
	}
	if target.Field != "year" {
		t.Errorf("expected field=year, got %s", target.Field)
	}
}

func TestNormalizeFuel(t *testing.T) {
	if got := NormalizeFuel("  Diesel "); got != "diesel" {
		t.Errorf("expected diesel, got %q", got)
	}
}
