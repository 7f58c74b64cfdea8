// Package power derives engine power figures when the user does not supply
// them directly, using the displacement/fuel decision table the regressors
// were trained against.
package power

import (
	"math"
	"strings"

	"github.com/eucarpredict/valuation-engine/engine/domain"
)

// HPPerKW is the conversion factor the training data was produced with.
// The rounding in KWToHP/HPToKW must stay as-is: a different policy shifts
// predictions systematically.
const HPPerKW = 1.36

// EstimateKW returns the fallback power estimate in kW for the given engine
// displacement and fuel string. Diesel is matched by substring,
// case-insensitively; all other fuels share one bucket set. Boundary
// displacements resolve to the lower bucket.
func EstimateKW(engineLiters float64, fuel string) int {
	if strings.Contains(strings.ToLower(fuel), "diesel") {
		switch {
		case engineLiters <= 1.5:
			return 75
		case engineLiters <= 2.0:
			return 110
		default:
			return 140
		}
	}
	switch {
	case engineLiters <= 1.2:
		return 60
	case engineLiters <= 1.6:
		return 92
	case engineLiters <= 2.0:
		return 132
	default:
		return 184
	}
}

// KWToHP converts kilowatts to horsepower.
func KWToHP(kw int) int { return int(math.Round(float64(kw) * HPPerKW)) }

// HPToKW converts horsepower to kilowatts.
func HPToKW(hp int) int { return int(math.Round(float64(hp) / HPPerKW)) }

// Resolve returns the authoritative power pair for a spec: explicit kW wins,
// then explicit HP, then the displacement fallback. estimated reports
// whether the fallback table produced the figures.
func Resolve(s domain.VehicleSpec) (kw, hp int, estimated bool) {
	switch {
	case s.PowerKW > 0:
		return s.PowerKW, KWToHP(s.PowerKW), false
	case s.PowerHP > 0:
		return HPToKW(s.PowerHP), s.PowerHP, false
	}
	kw = EstimateKW(s.EngineLiters, s.Fuel)
	return kw, KWToHP(kw), true
}
