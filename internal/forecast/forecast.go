// Package forecast produces the synthetic "predicted vs realized" sales
// series shown next to the response curve. Nothing here is fitted: the
// prediction is a sine wave and the realized values add gaussian noise.
package forecast

import (
	"math"
	"math/rand"
	"time"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

const (
	Months    = 12
	amplitude = 200.0
	level     = 1000.0
	noiseSD   = 50.0
)

var start = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generate es determinista para un mismo seed.
func Generate(seed int64) []models.ForecastPoint {
	rng := rand.New(rand.NewSource(seed))
	out := make([]models.ForecastPoint, Months)
	for i := range out {
		p := Predicted(i)
		out[i] = models.ForecastPoint{
			Month:     monthEnd(i),
			Predicted: p,
			Realized:  p + rng.NormFloat64()*noiseSD,
		}
	}
	return out
}

// Predicted samples sin over [0, 3π] in Months evenly spaced steps.
func Predicted(i int) float64 {
	x := float64(i) * 3 * math.Pi / float64(Months-1)
	if i == Months-1 {
		x = 3 * math.Pi
	}
	return math.Sin(x)*amplitude + level
}

func monthEnd(i int) time.Time {
	// primer día del mes siguiente menos un día
	return start.AddDate(0, i+1, -1)
}
