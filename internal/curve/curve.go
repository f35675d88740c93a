// Package curve implements the three-phase media response curve.
//
// The breakpoints at 100 and 300 are discontinuous (0.5 -> 1.5 and
// 3.5 -> 3) and are kept as-is.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

const (
	ReferenceMin   = 0.0
	ReferenceMax   = 500.0
	ReferenceCount = 500
	MaxCount       = 10000

	rampEnd     = 100.0
	growthEnd   = 300.0
	ceiling     = 3.0
	growthSlope = 0.01
	growthBase  = 0.5
)

var (
	ErrInvalidInput = errors.New("invalid investment")
	ErrOutOfRange   = errors.New("investment out of reference domain")
)

// Effect evalúa la curva. Total: negativos caen en el primer tramo.
func Effect(investment float64) float64 {
	switch {
	case investment < rampEnd:
		return 0.5 * investment / 100
	case investment < growthEnd:
		return investment*growthSlope + growthBase
	default:
		return ceiling
	}
}

// Series samples count points evenly over [min, max], both ends included.
func Series(min, max float64, count int) []models.CurveSample {
	if count <= 0 {
		return []models.CurveSample{}
	}
	out := make([]models.CurveSample, count)
	for i := range out {
		x := abscissa(min, max, count, i)
		out[i] = models.CurveSample{Investment: x, Effect: Effect(x)}
	}
	return out
}

// CheckDomain rejects sampling requests whose points would not be finite
// numbers, or that ask for more than MaxCount samples.
func CheckDomain(min, max float64, count int) error {
	if !finite(min) || !finite(max) || !finite(max-min) {
		return fmt.Errorf("domain [%v, %v]: %w", min, max, ErrInvalidInput)
	}
	if count < 0 || count > MaxCount {
		return fmt.Errorf("count %d not in [0, %d]: %w", count, MaxCount, ErrInvalidInput)
	}
	return nil
}

// ReferenceSeries is the 500-point domain the dashboard plots.
func ReferenceSeries() []models.CurveSample {
	return Series(ReferenceMin, ReferenceMax, ReferenceCount)
}

// SampleAt returns the idx-th point of the reference domain.
func SampleAt(idx int) (models.CurveSample, error) {
	if idx < 0 {
		return models.CurveSample{}, fmt.Errorf("index %d: %w", idx, ErrInvalidInput)
	}
	if idx >= ReferenceCount {
		return models.CurveSample{}, fmt.Errorf("index %d: %w", idx, ErrOutOfRange)
	}
	x := abscissa(ReferenceMin, ReferenceMax, ReferenceCount, idx)
	return models.CurveSample{Investment: x, Effect: Effect(x)}, nil
}

// EffectAtPoint truncates investment to an index of the reference domain and
// returns the effect of that sample. The sample abscissa is idx*500/499, so
// the result can differ from Effect(investment) near the breakpoints.
func EffectAtPoint(investment float64) (float64, error) {
	if !finite(investment) || investment < 0 {
		return 0, fmt.Errorf("%v: %w", investment, ErrInvalidInput)
	}
	if investment >= float64(ReferenceCount) {
		return 0, fmt.Errorf("%v: %w", investment, ErrOutOfRange)
	}
	s, err := SampleAt(int(investment))
	if err != nil {
		return 0, err
	}
	return s.Effect, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func abscissa(min, max float64, count, i int) float64 {
	if count == 1 {
		return min
	}
	if i == count-1 {
		return max
	}
	step := (max - min) / float64(count-1)
	return float64(i)*step + min
}
