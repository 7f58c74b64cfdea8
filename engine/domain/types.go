// Package domain defines the core valuation types, constants, and input
// validation for the pricing pipeline. It acts as the validation gate at
// pipeline entry points.
package domain

// FuelType is one of the fuel categories the regressors were trained on.
type FuelType string

const (
	FuelCNG      FuelType = "cng"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelLPG      FuelType = "lpg"
	FuelPetrol   FuelType = "petrol"
)

// ValidFuelTypes is the set of recognised fuel types.
var ValidFuelTypes = map[FuelType]bool{
	FuelCNG: true, FuelDiesel: true, FuelElectric: true,
	FuelHybrid: true, FuelLPG: true, FuelPetrol: true,
}

// Transmission values recognised by the one-hot encoding. Anything else
// passes through with both transmission flags at zero, which is how the
// training data represented unknown gearboxes.
const (
	TransmissionManual    = "manual"
	TransmissionAutomatic = "automatic"
)

// MinYear is the earliest manufacture year we accept.
const MinYear = 1950

// MaxYear is the latest manufacture year we accept (current + 1 for
// next-year registrations).
const MaxYear = 2027

// VehicleSpec holds the user-declared attributes of the vehicle being
// valued. PowerKW and PowerHP are optional; zero means "not supplied" and
// triggers the displacement-based fallback. If both are supplied, kW wins.
// BrandCode and ModelCode are manual encoding overrides for vehicles the
// catalog does not cover.
type VehicleSpec struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	EngineLiters float64 `json:"engine_l"`
	Fuel         string  `json:"fuel"`
	Transmission string  `json:"transmission"`
	MileageKM    int     `json:"mileage_km"`
	Condition    float64 `json:"condition"`
	PowerKW      int     `json:"power_kw,omitempty"`
	PowerHP      int     `json:"power_hp,omitempty"`
	BrandCode    *int    `json:"brand_code,omitempty"`
	ModelCode    *int    `json:"model_code,omitempty"`
}
