package fakeapi

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrAreaNotFound = errors.New("area not found")
	ErrAreaExists   = errors.New("area already exists")
	ErrEmptyName    = errors.New("area name is empty")
)

// Area is a stored area. Key is the URL segment it is served under.
type Area struct {
	Key      string
	Name     string
	Location string
}

// Measurement is a stored sample.
type Measurement struct {
	Time  time.Time
	Value float64
}

// Store keeps areas and their measurements in memory, in insertion order.
type Store struct {
	mu           sync.RWMutex
	areas        []Area
	measurements map[string][]Measurement
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{measurements: map[string][]Measurement{}}
}

// Slug derives the URL key for an area name: "Test Area" is "test-area".
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// List returns all areas in insertion order.
func (s *Store) List() []Area {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.areas)
}

// Get returns the area stored under key.
func (s *Store) Get(key string) (Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.index(key)
	if idx < 0 {
		return Area{}, fmt.Errorf("%w: %s", ErrAreaNotFound, key)
	}

	return s.areas[idx], nil
}

// Create adds an area and returns it with its key.
func (s *Store) Create(name, location string) (Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Area{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := Slug(name)
	if s.index(key) >= 0 {
		return Area{}, fmt.Errorf("%w: %s", ErrAreaExists, name)
	}

	area := Area{Key: key, Name: name, Location: location}
	s.areas = append(s.areas, area)

	return area, nil
}

// Update renames the area under key. The key does not change. An empty
// location keeps the current one.
func (s *Store) Update(key, name, location string) (Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Area{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(key)
	if idx < 0 {
		return Area{}, fmt.Errorf("%w: %s", ErrAreaNotFound, key)
	}

	for i, other := range s.areas {
		if i != idx && strings.EqualFold(other.Name, name) {
			return Area{}, fmt.Errorf("%w: %s", ErrAreaExists, name)
		}
	}

	s.areas[idx].Name = name
	if location != "" {
		s.areas[idx].Location = location
	}

	return s.areas[idx], nil
}

// Delete removes the area and its measurements.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(key)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrAreaNotFound, key)
	}

	s.areas = slices.Delete(s.areas, idx, idx+1)
	delete(s.measurements, key)

	return nil
}

// AddMeasurements appends samples to an area.
func (s *Store) AddMeasurements(key string, samples ...Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(key) < 0 {
		return fmt.Errorf("%w: %s", ErrAreaNotFound, key)
	}

	s.measurements[key] = append(s.measurements[key], samples...)

	return nil
}

// Measurements returns up to limit samples of an area starting at start,
// and the total number of samples.
func (s *Store) Measurements(key string, start, limit int) ([]Measurement, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index(key) < 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrAreaNotFound, key)
	}

	all := s.measurements[key]
	total := len(all)

	if start >= total {
		return []Measurement{}, total, nil
	}

	end := min(start+limit, total)

	return slices.Clone(all[start:end]), total, nil
}

func (s *Store) index(key string) int {
	return slices.IndexFunc(s.areas, func(a Area) bool { return a.Key == key })
}

// Seed fills the store with the demo data: Kumpula and Otaniemi, each with
// count hourly measurements starting at base.
func (s *Store) Seed(base time.Time, count int) {
	for i, seed := range []struct{ name, location string }{
		{name: "Kumpula", location: "Helsinki"},
		{name: "Otaniemi", location: "Espoo"},
	} {
		area, err := s.Create(seed.name, seed.location)
		if err != nil {
			continue
		}

		samples := make([]Measurement, 0, count)
		for n := range count {
			samples = append(samples, Measurement{
				Time:  base.Add(time.Duration(n) * time.Hour),
				Value: math.Round((20+5*math.Sin(float64(n+i)/4))*100) / 100,
			})
		}

		_ = s.AddMeasurements(area.Key, samples...)
	}
}
