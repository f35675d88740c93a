package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/MMM_GO/internal/models"
	"github.com/AngelCh415/MMM_GO/internal/store"
)

var (
	ratiosA = models.Ratios{Access: 1.6, Lead: 0.4, Sale: 0.3}
	ratiosB = models.Ratios{Access: 0.4, Lead: 0.25, Sale: 0.15}
)

func TestComputeScenarioA(t *testing.T) {
	alloc := models.Allocation{"Mega": 300, "Macro": 250, "Mid": 200, "Micro": 150, "Nano": 100}
	m := Compute(alloc, ratiosA)
	assert.Equal(t, 1000.0, m.Total)
	assert.InDelta(t, 1600, m.Accesses, 1e-9)
	assert.InDelta(t, 640, m.Leads, 1e-9)
	assert.InDelta(t, 192, m.Sales, 1e-9)
}

func TestComputeScenarioB(t *testing.T) {
	alloc := models.Allocation{"Mega": 150, "Macro": 120, "Mid": 80, "Micro": 60, "Nano": 40}
	m := Compute(alloc, ratiosB)
	assert.Equal(t, 450.0, m.Total)
	assert.InDelta(t, 180, m.Accesses, 1e-9)
	assert.InDelta(t, 45, m.Leads, 1e-9)
	assert.InDelta(t, 6.75, m.Sales, 1e-9)
}

func TestComputeLinearInTotal(t *testing.T) {
	alloc := models.Allocation{"a": 12.5, "b": 7, "c": 300}
	base := Compute(alloc, ratiosA)
	for _, k := range []float64{0, 0.5, 2, 3.7, 10} {
		scaled := models.Allocation{}
		for name, v := range alloc {
			scaled[name] = v * k
		}
		got := Compute(scaled, ratiosA)
		assert.InDelta(t, base.Accesses*k, got.Accesses, 1e-9, "k=%v", k)
		assert.InDelta(t, base.Leads*k, got.Leads, 1e-9, "k=%v", k)
		assert.InDelta(t, base.Sales*k, got.Sales, 1e-9, "k=%v", k)
	}
}

func TestComputeIdempotent(t *testing.T) {
	alloc := models.Allocation{"x": 0.1, "y": 0.2, "z": 0.3, "w": 1e9}
	first := Compute(alloc, ratiosB)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Compute(alloc, ratiosB))
	}
	assert.Equal(t, 0.1, alloc["x"])
}

func TestComputeNegativePassesThrough(t *testing.T) {
	m := Compute(models.Allocation{"a": -100, "b": 50}, ratiosA)
	assert.Equal(t, -50.0, m.Total)
	assert.InDelta(t, -80, m.Accesses, 1e-9)
}

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, models.FunnelMetrics{}, Compute(nil, ratiosA))
}

func TestDeltas(t *testing.T) {
	d := Deltas(models.FunnelMetrics{Accesses: 1600, Leads: 640, Sales: 192},
		models.Baseline{Accesses: 5000, Leads: 1500, Sales: 500})
	assert.Equal(t, -68.0, d.Accesses)
	assert.Equal(t, -57.33, d.Leads)
	assert.Equal(t, -61.6, d.Sales)

	zero := Deltas(models.FunnelMetrics{Accesses: 10}, models.Baseline{})
	assert.Equal(t, models.Deltas{}, zero)
}

func defaultProfile(t *testing.T, name string) models.Profile {
	t.Helper()
	st, err := store.NewDefaultStore()
	require.NoError(t, err)
	p, err := st.Get(name)
	require.NoError(t, err)
	return p
}

func TestResolveDefaultsAndBounds(t *testing.T) {
	p := defaultProfile(t, "influencers")

	alloc, err := Resolve(p, models.Allocation{"Nanoinfluenciadores": 800})
	require.NoError(t, err)
	assert.Equal(t, 800.0, alloc["Nanoinfluenciadores"])
	assert.Equal(t, 300.0, alloc["Megainfluenciadores"])

	_, err = Resolve(p, models.Allocation{"Nanoinfluenciadores": 801})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Resolve(p, models.Allocation{"Megainfluenciadores": -1})
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Resolve(p, models.Allocation{"Jornal": 10})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSimulateInitialInfluencers(t *testing.T) {
	sim, err := Simulate(defaultProfile(t, "influencers"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, sim.Metrics.Total)
	assert.InDelta(t, 192, sim.Metrics.Sales, 1e-9)
	assert.Equal(t, -68.0, sim.Deltas.Accesses)

	require.Len(t, sim.Impact, 5)
	assert.Equal(t, "Megainfluenciadores", sim.Impact[0].Category)
	assert.InDelta(t, 15, sim.Impact[0].Impact, 1e-9)
	assert.InDelta(t, 90, sim.Impact[0].Size, 1e-9)
}

func TestSimulateInitialLite(t *testing.T) {
	sim, err := Simulate(defaultProfile(t, "influencers-lite"), nil)
	require.NoError(t, err)
	assert.Equal(t, 450.0, sim.Metrics.Total)
	assert.InDelta(t, 6.75, sim.Metrics.Sales, 1e-9)
}

func TestKPIs(t *testing.T) {
	k := KPIs(defaultProfile(t, "influencers"))
	assert.Equal(t, 1000.0, k.TotalInvested)
	assert.Equal(t, 140.2, k.ROI.Overall)
	assert.Equal(t, 150.8, k.ROI.MegaMacro)
	assert.Equal(t, 120.4, k.ROI.MicroNano)
}

type countRecorder map[string]int

func (c countRecorder) Simulated(p string) { c[p]++ }

func TestServiceSimulate(t *testing.T) {
	st, err := store.NewDefaultStore()
	require.NoError(t, err)
	rec := countRecorder{}
	svc := NewService(st, rec)

	_, err = svc.Simulate("influencers", models.Allocation{"Megainfluenciadores": 0})
	require.NoError(t, err)
	_, err = svc.Simulate("influencers", models.Allocation{"Megainfluenciadores": 9999})
	require.Error(t, err)
	_, err = svc.Simulate("missing", nil)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	assert.Equal(t, 1, rec["influencers"])
	assert.Len(t, svc.Profiles(), 2)
}
