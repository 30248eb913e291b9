package kinetics

import (
	"fmt"
	"math"

	"github.com/termolab/pyrofit/internal/domain/model"
)

// GasConstant is the universal gas constant in J/(mol*K).
const GasConstant = 8.314

// Conversion evaluates the conversion function
//
//	f(alpha) = (1-alpha)^n * (alpha^m + alphaStar)
//
// Alpha is clamped to [0,1] before the powers are taken, and 0^0 is defined
// as 1 so that zero exponents behave as a constant factor rather than
// depending on floating-point incidentals.
func Conversion(alpha, n, m, alphaStar float64) float64 {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return power(1-alpha, n) * (power(alpha, m) + alphaStar)
}

// power is math.Pow with the 0^0 == 1 and 0^positive == 0 conventions made
// explicit.
func power(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	if base == 0 {
		return 0
	}
	return math.Pow(base, exp)
}

// Rate evaluates the reaction-rate model at a single point:
//
//	r(alpha, T) = A * f(alpha) * exp(-Ea/(R*T))
//
// The caller is responsible for T being strictly positive.
func Rate(p model.Params, alpha, temperature float64) float64 {
	return p.A * Conversion(alpha, p.N, p.M, p.AlphaStar) * math.Exp(-p.Ea/(GasConstant*temperature))
}

// Predict evaluates the model over a full grid. It fails with
// ErrInvalidDomain if any temperature is not strictly positive Kelvin.
func Predict(p model.Params, alpha, temperature []float64) ([]float64, error) {
	if len(alpha) != len(temperature) {
		return nil, fmt.Errorf("%w: %d alphas vs %d temperatures", ErrInvalidTrace, len(alpha), len(temperature))
	}
	for i, t := range temperature {
		if t <= 0 {
			return nil, fmt.Errorf("%w: T[%d] = %g K", ErrInvalidDomain, i, t)
		}
	}

	out := make([]float64, len(alpha))
	for i := range alpha {
		out[i] = Rate(p, alpha[i], temperature[i])
	}
	return out, nil
}
