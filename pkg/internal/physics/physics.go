// Package physics computes the speed of sound and the adiabatic index from
// resonance minima, and verifies student-submitted values against the system's
// own results.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/autolab/resonance/pkg/internal/types"
	"gonum.org/v1/gonum/stat"
)

// Physical constants of the air-column model.
const (
	// GasConstant is R in J/(mol K).
	GasConstant = 8.314
	// MolarMassAir is the molar mass of dry air in kg/mol.
	MolarMassAir = 0.029
	// ReferenceGamma is the textbook adiabatic index for diatomic air.
	ReferenceGamma = 1.4
	// ErrorTolerance is the accepted relative deviation for student values.
	ErrorTolerance = 0.05
)

var ErrTooFewMinima = errors.New("physics: need at least two minima")

// SpeedOfSound derives v from the mean spacing of adjacent resonance minima.
// Adjacent minima of a half-open column sit half a wavelength apart, so
// v = 2 * mean spacing * frequency. Positions are in meters.
func SpeedOfSound(minimaPositions []float64, frequencyHz float64) (float64, error) {
	if len(minimaPositions) < 2 {
		return 0, ErrTooFewMinima
	}

	spacings := make([]float64, len(minimaPositions)-1)
	for i := 1; i < len(minimaPositions); i++ {
		spacings[i-1] = math.Abs(minimaPositions[i] - minimaPositions[i-1])
	}
	return 2 * stat.Mean(spacings, nil) * frequencyHz, nil
}

// Gamma derives the adiabatic index from the measured speed of sound using
// v^2 = gamma R T / mu.
func Gamma(speed, temperatureC float64) float64 {
	kelvin := temperatureC + 273.15
	return speed * speed * MolarMassAir / (GasConstant * kelvin)
}

// RelativeError is |measured - expected| / |expected|.
func RelativeError(measured, expected float64) float64 {
	if expected == 0 {
		return math.Inf(1)
	}
	return math.Abs(measured-expected) / math.Abs(expected)
}

// Verify judges student-submitted values against the system's results and the
// reference adiabatic index. Every failed check contributes a message; the
// result is valid only when all three pass.
func Verify(studentSpeed, studentGamma, systemSpeed, systemGamma float64) types.VerificationResult {
	result := types.VerificationResult{
		StudentSpeed:        studentSpeed,
		SystemSpeed:         systemSpeed,
		StudentGamma:        studentGamma,
		SystemGamma:         systemGamma,
		SpeedError:          RelativeError(studentSpeed, systemSpeed),
		GammaErrorSystem:    RelativeError(studentGamma, systemGamma),
		GammaErrorReference: RelativeError(studentGamma, ReferenceGamma),
	}

	if result.SpeedError > ErrorTolerance {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"speed deviates %.1f%% from the system value (limit %.0f%%)",
			result.SpeedError*100, ErrorTolerance*100))
	}
	if result.GammaErrorSystem > ErrorTolerance {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"gamma deviates %.1f%% from the system value (limit %.0f%%)",
			result.GammaErrorSystem*100, ErrorTolerance*100))
	}
	if result.GammaErrorReference > ErrorTolerance {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"gamma deviates %.1f%% from the reference 1.4 (limit %.0f%%)",
			result.GammaErrorReference*100, ErrorTolerance*100))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
