// Package panels holds the illustrative brand and influencer datasets of the
// dashboard tabs. All values are fixed.
package panels

import (
	"errors"
	"fmt"
	"sort"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

var ErrPanelNotFound = errors.New("panel not found")

var attributes = []string{"Qualidade", "Inovação", "Confiabilidade", "Disponibilidade", "Atendimento", "Preço", "Sustentabilidade", "Design"}

var influencers = []string{"Influencer A", "Influencer B", "Influencer C", "Influencer D", "Influencer E", "Influencer F", "Influencer G", "Influencer H"}

var influencePower = []float64{80, 75, 70, 65, 60, 55, 50, 45}

var registry = map[string]func() models.Panel{
	"brand-matrix": func() models.Panel {
		return models.Panel{
			Name: "brand-matrix", Title: "Matriz de Importância vs. Performance", Kind: "scatter",
			XLabel: "Importância", YLabel: "Performance",
			Series: []models.Series{{
				Name:   "Atributos",
				Labels: clone(attributes),
				X:      []float64{8, 7, 9, 5, 6, 4, 7, 8},
				Y:      []float64{6, 8, 7, 4, 5, 3, 8, 7},
			}},
		}
	},
	"brand-radar": func() models.Panel {
		return models.Panel{
			Name: "brand-radar", Title: "Impacto de Influência vs. Geral", Kind: "radar",
			Series: []models.Series{
				{Name: "Influência", Labels: clone(attributes), Y: []float64{6, 7, 8, 6, 5, 6, 7, 8}},
				{Name: "Geral", Labels: clone(attributes), Y: []float64{5, 6, 6, 4, 4, 5, 6, 6}},
			},
		}
	},
	"efficiency": func() models.Panel {
		return models.Panel{
			Name: "efficiency", Title: "Avaliação de Influência por Métrica", Kind: "bar",
			Series: []models.Series{{
				Name:   "Eficiência",
				Labels: []string{"Autenticidade", "Adequação", "Relevância", "Endossamento"},
				Y:      []float64{7, 8, 6, 7},
			}},
		}
	},
	"influence-power": func() models.Panel {
		return models.Panel{
			Name: "influence-power", Title: "Influence Power dos Influenciadores", Kind: "bar",
			XLabel: "Influenciador", YLabel: "Influence Power",
			Series: []models.Series{{Name: "Influence Power", Labels: clone(influencers), Y: cloneF(influencePower)}},
		}
	},
	"influence-risk": func() models.Panel {
		reach := []float64{500, 400, 300, 200, 600, 550, 650, 700}
		size := make([]float64, len(reach))
		for i, a := range reach {
			size[i] = a * 0.1
		}
		return models.Panel{
			Name: "influence-risk", Title: "Influence Power vs. Risco", Kind: "scatter",
			XLabel: "Influence Power", YLabel: "Risco",
			Series: []models.Series{{
				Name:   "Influenciadores",
				Labels: clone(influencers),
				X:      cloneF(influencePower),
				Y:      []float64{30, 25, 20, 15, 35, 40, 45, 50},
				Size:   size,
			}},
		}
	},
	"governance": func() models.Panel {
		return models.Panel{
			Name: "governance", Title: "Governança de Dados", Kind: "text",
			Text: []string{
				"Dados de investimentos semanais em mídia de cada canal coletados de relatórios internos e parceiros.",
				"Ferramentas usadas: Google Analytics, Meta Business Suite, TV Tracking.",
				"Data de última atualização do modelo: 03/03/2025",
				"Data da próxima rodada do modelo: 05/08/2025",
			},
		}
	},
}

// Get devuelve una copia nueva en cada llamada.
func Get(name string) (models.Panel, error) {
	f, ok := registry[name]
	if !ok {
		return models.Panel{}, fmt.Errorf("%q: %w", name, ErrPanelNotFound)
	}
	return f(), nil
}

func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clone(s []string) []string    { return append([]string(nil), s...) }
func cloneF(s []float64) []float64 { return append([]float64(nil), s...) }
