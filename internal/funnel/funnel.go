package funnel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrOutOfBounds     = errors.New("investment out of bounds")
)

const markerScale = 0.3

// Compute convierte la alocación en acessos -> leads -> vendas con ratios fijos.
// No valida: negativos pasan tal cual.
func Compute(alloc models.Allocation, r models.Ratios) models.FunnelMetrics {
	total := Total(alloc)
	accesses := total * r.Access
	leads := accesses * r.Lead
	return models.FunnelMetrics{
		Total:    total,
		Accesses: accesses,
		Leads:    leads,
		Sales:    leads * r.Sale,
	}
}

// Total sums in key order so the float result does not depend on map iteration.
func Total(alloc models.Allocation) float64 {
	keys := make([]string, 0, len(alloc))
	for k := range alloc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var total float64
	for _, k := range keys {
		total += alloc[k]
	}
	return total
}

// Deltas: variación porcentual contra la línea base; base cero -> 0.
func Deltas(m models.FunnelMetrics, base models.Baseline) models.Deltas {
	return models.Deltas{
		Accesses: round2(pctChange(m.Accesses, base.Accesses)),
		Leads:    round2(pctChange(m.Leads, base.Leads)),
		Sales:    round2(pctChange(m.Sales, base.Sales)),
	}
}

// Impact builds the bubble chart points in profile category order.
func Impact(p models.Profile, alloc models.Allocation) []models.BubblePoint {
	out := make([]models.BubblePoint, 0, len(p.Categories))
	for _, c := range p.Categories {
		v := alloc[c.Name]
		out = append(out, models.BubblePoint{
			Category:   c.Name,
			Investment: v,
			Impact:     v * p.ImpactFactor,
			Size:       v * markerScale,
		})
	}
	return out
}

// Resolve merges overrides onto the profile's initial values and enforces
// the slider bounds.
func Resolve(p models.Profile, overrides models.Allocation) (models.Allocation, error) {
	alloc := p.InitialAllocation()
	for k, v := range overrides {
		if !p.HasCategory(k) {
			return nil, fmt.Errorf("%q in profile %s: %w", k, p.Name, ErrUnknownCategory)
		}
		if math.IsNaN(v) || v < p.Bounds.Min || v > p.Bounds.Max {
			return nil, fmt.Errorf("%s=%v not in [%v, %v]: %w", k, v, p.Bounds.Min, p.Bounds.Max, ErrOutOfBounds)
		}
		alloc[k] = v
	}
	return alloc, nil
}

func KPIs(p models.Profile) models.KPIBlock {
	return models.KPIBlock{
		Profile:       p.Name,
		TotalInvested: Total(p.InitialAllocation()),
		ROI:           p.ROI,
	}
}

func Simulate(p models.Profile, overrides models.Allocation) (models.Simulation, error) {
	alloc, err := Resolve(p, overrides)
	if err != nil {
		return models.Simulation{}, err
	}
	m := Compute(alloc, p.Ratios)
	return models.Simulation{
		Profile:    p.Name,
		Allocation: alloc,
		Metrics:    m,
		Deltas:     Deltas(m, p.Baseline),
		Impact:     Impact(p, alloc),
	}, nil
}

func pctChange(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (v/base - 1) * 100
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
