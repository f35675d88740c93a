package funnel

import (
	"github.com/AngelCh415/MMM_GO/internal/models"
)

type ProfileSource interface {
	Get(name string) (models.Profile, error)
	All() []models.Profile
}

// Recorder recibe cada simulación resuelta (métricas prometheus en el server).
type Recorder interface {
	Simulated(profile string)
}

type Service struct {
	src ProfileSource
	rec Recorder
}

func NewService(src ProfileSource, rec Recorder) *Service { return &Service{src: src, rec: rec} }

func (s *Service) Profiles() []models.Profile { return s.src.All() }

func (s *Service) Profile(name string) (models.Profile, error) { return s.src.Get(name) }

func (s *Service) KPIs(name string) (models.KPIBlock, error) {
	p, err := s.src.Get(name)
	if err != nil {
		return models.KPIBlock{}, err
	}
	return KPIs(p), nil
}

func (s *Service) Simulate(name string, overrides models.Allocation) (models.Simulation, error) {
	p, err := s.src.Get(name)
	if err != nil {
		return models.Simulation{}, err
	}
	sim, err := Simulate(p, overrides)
	if err != nil {
		return models.Simulation{}, err
	}
	if s.rec != nil {
		s.rec.Simulated(p.Name)
	}
	return sim, nil
}
