package models

import "time"

// Allocation: inversión por categoría (tier de influenciador o canal de medios).
type Allocation map[string]float64

type Ratios struct {
	Access float64 `json:"access" yaml:"access"`
	Lead   float64 `json:"lead" yaml:"lead"`
	Sale   float64 `json:"sale" yaml:"sale"`
}

type FunnelMetrics struct {
	Total    float64 `json:"total"`
	Accesses float64 `json:"accesses"`
	Leads    float64 `json:"leads"`
	Sales    float64 `json:"sales"`
}

type Deltas struct {
	Accesses float64 `json:"accesses_pct"`
	Leads    float64 `json:"leads_pct"`
	Sales    float64 `json:"sales_pct"`
}

type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

type Baseline struct {
	Accesses float64 `json:"accesses" yaml:"accesses"`
	Leads    float64 `json:"leads" yaml:"leads"`
	Sales    float64 `json:"sales" yaml:"sales"`
}

type ROI struct {
	Overall   float64 `json:"overall" yaml:"overall"`
	MegaMacro float64 `json:"mega_macro" yaml:"mega_macro"`
	MicroNano float64 `json:"micro_nano" yaml:"micro_nano"`
}

type Category struct {
	Name    string  `json:"name" yaml:"name"`
	Initial float64 `json:"initial" yaml:"initial"`
}

// Profile agrupa ratios, límites de slider y valores iniciales de una vista.
type Profile struct {
	Name         string     `json:"name" yaml:"name"`
	Title        string     `json:"title" yaml:"title"`
	Ratios       Ratios     `json:"ratios" yaml:"ratios"`
	Bounds       Bounds     `json:"bounds" yaml:"bounds"`
	Categories   []Category `json:"categories" yaml:"categories"`
	Baseline     Baseline   `json:"baseline" yaml:"baseline"`
	ImpactFactor float64    `json:"impact_factor" yaml:"impact_factor"`
	ROI          ROI        `json:"roi" yaml:"roi"`
}

func (p Profile) InitialAllocation() Allocation {
	out := make(Allocation, len(p.Categories))
	for _, c := range p.Categories {
		out[c.Name] = c.Initial
	}
	return out
}

func (p Profile) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

type MediaChannel struct {
	Name       string  `json:"name" yaml:"name"`
	Investment float64 `json:"investment" yaml:"investment"`
}

type CurveSample struct {
	Investment float64 `json:"investment"`
	Effect     float64 `json:"effect"`
}

type BubblePoint struct {
	Category   string  `json:"category"`
	Investment float64 `json:"investment"`
	Impact     float64 `json:"impact"`
	Size       float64 `json:"size"`
}

type KPIBlock struct {
	Profile       string  `json:"profile"`
	TotalInvested float64 `json:"total_invested"`
	ROI           ROI     `json:"roi"`
}

type Simulation struct {
	Profile    string        `json:"profile"`
	Allocation Allocation    `json:"allocation"`
	Metrics    FunnelMetrics `json:"metrics"`
	Deltas     Deltas        `json:"deltas"`
	Impact     []BubblePoint `json:"impact"`
}

type ForecastPoint struct {
	Month     time.Time `json:"month"`
	Predicted float64   `json:"predicted"`
	Realized  float64   `json:"realized"`
}

// Panel: dataset estático de un gráfico del dashboard.
type Panel struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Kind   string   `json:"kind"` // bar, scatter, radar, text
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Series []Series `json:"series,omitempty"`
	Text   []string `json:"text,omitempty"`
}

type Series struct {
	Name   string    `json:"name"`
	Labels []string  `json:"labels,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y"`
	Size   []float64 `json:"size,omitempty"`
}
