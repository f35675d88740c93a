package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

//go:embed profiles.yaml
var defaultProfiles []byte

const defaultImpactFactor = 0.05

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrChannelNotFound = errors.New("media channel not found")
)

type document struct {
	Profiles []models.Profile      `yaml:"profiles"`
	Media    []models.MediaChannel `yaml:"media"`
}

// MemoryStore guarda los perfiles de simulación y los canales de medios.
// Sólo se escribe al cargar; las lecturas son concurrentes.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
	media    []models.MediaChannel
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]models.Profile)}
}

// NewDefaultStore returns a store seeded with the built-in profiles.
func NewDefaultStore() (*MemoryStore, error) {
	s := NewMemoryStore()
	if err := s.Load(bytes.NewReader(defaultProfiles)); err != nil {
		return nil, fmt.Errorf("builtin profiles: %w", err)
	}
	return s, nil
}

func (s *MemoryStore) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load upserts profiles by name. A non-empty media list replaces the current one.
func (s *MemoryStore) Load(r io.Reader) error {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return err
	}
	for i := range doc.Profiles {
		if err := validate(&doc.Profiles[i]); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range doc.Profiles {
		s.profiles[p.Name] = p
	}
	if len(doc.Media) > 0 {
		s.media = append([]models.MediaChannel(nil), doc.Media...)
	}
	return nil
}

func (s *MemoryStore) Get(name string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return models.Profile{}, fmt.Errorf("%q: %w", name, ErrProfileNotFound)
	}
	return p, nil
}

func (s *MemoryStore) All() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	// orden determinista
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *MemoryStore) Media() []models.MediaChannel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MediaChannel(nil), s.media...)
}

func (s *MemoryStore) Channel(name string) (models.MediaChannel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.media {
		if c.Name == name {
			return c, nil
		}
	}
	return models.MediaChannel{}, fmt.Errorf("%q: %w", name, ErrChannelNotFound)
}

func validate(p *models.Profile) error {
	if p.Name == "" {
		return errors.New("profile without name")
	}
	if p.Bounds.Min < 0 || p.Bounds.Min > p.Bounds.Max {
		return fmt.Errorf("profile %s: bad bounds [%v, %v]", p.Name, p.Bounds.Min, p.Bounds.Max)
	}
	if len(p.Categories) == 0 {
		return fmt.Errorf("profile %s: no categories", p.Name)
	}
	seen := make(map[string]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("profile %s: duplicate category %q", p.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
		// los valores iniciales también pasan por los límites del slider
		if c.Initial < p.Bounds.Min || c.Initial > p.Bounds.Max {
			return fmt.Errorf("profile %s: %s initial %v not in [%v, %v]", p.Name, c.Name, c.Initial, p.Bounds.Min, p.Bounds.Max)
		}
	}
	if p.ImpactFactor == 0 {
		p.ImpactFactor = defaultImpactFactor
	}
	return nil
}
