// Package memory provides an in-memory module graph store, used by tests and
// by the CLI when pointed at a JSON fixture instead of a live database.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// Store is an in-memory [registry.Store]. The zero value is not usable; use
// [New]. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	modules  map[string]registry.Module
	edges    map[string]map[string]registry.Dependency // fromID -> toID -> edge
	installs map[string]map[string]install              // targetID -> moduleID -> record
}

type install struct {
	enabled bool
	version string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		modules:  make(map[string]registry.Module),
		edges:    make(map[string]map[string]registry.Dependency),
		installs: make(map[string]map[string]install),
	}
}

// AddModule registers a module in the catalog, overwriting any prior entry
// with the same ID.
func (s *Store) AddModule(m registry.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[m.ID] = m
}

// Install marks a module as installed and enabled on the target, recording
// the installed version.
func (s *Store) Install(targetID, moduleID, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.installs[targetID] == nil {
		s.installs[targetID] = make(map[string]install)
	}
	s.installs[targetID][moduleID] = install{enabled: true, version: version}
}

// Disable keeps the installation record but marks it disabled, so it no
// longer counts as installed for resolution.
func (s *Store) Disable(targetID, moduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.installs[targetID][moduleID]; ok {
		rec.enabled = false
		s.installs[targetID][moduleID] = rec
	}
}

// Module implements [registry.Source].
func (s *Store) Module(ctx context.Context, id string) (registry.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[id]
	if !ok {
		return registry.Module{}, fmt.Errorf("%w: %s", registry.ErrModuleNotFound, id)
	}
	return m, nil
}

// Edges implements [registry.Source]. Map iteration makes the order
// unstable; callers must not rely on it.
func (s *Store) Edges(ctx context.Context, moduleID string) ([]registry.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]registry.Dependency, 0, len(s.edges[moduleID]))
	for _, e := range s.edges[moduleID] {
		out = append(out, e)
	}
	return out, nil
}

// Installed implements [registry.Source], returning enabled modules only.
func (s *Store) Installed(ctx context.Context, targetID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool)
	for id, rec := range s.installs[targetID] {
		if rec.enabled {
			out[id] = true
		}
	}
	return out, nil
}

// InstalledVersions implements [registry.VersionedSource].
func (s *Store) InstalledVersions(ctx context.Context, targetID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for id, rec := range s.installs[targetID] {
		if rec.enabled && rec.version != "" {
			out[id] = rec.version
		}
	}
	return out, nil
}

// UpsertEdge implements [registry.Mutator]: last write wins on the
// (FromID, ToID) pair.
func (s *Store) UpsertEdge(ctx context.Context, dep registry.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edges[dep.FromID] == nil {
		s.edges[dep.FromID] = make(map[string]registry.Dependency)
	}
	s.edges[dep.FromID][dep.ToID] = dep
	return nil
}

// DeleteEdge implements [registry.Mutator].
func (s *Store) DeleteEdge(ctx context.Context, fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges[fromID], toID)
	return nil
}

// Fixture is the JSON shape accepted by [LoadFixture].
type Fixture struct {
	Modules      []registry.Module     `json:"modules"`
	Dependencies []registry.Dependency `json:"dependencies"`
	Installed    map[string][]Installed `json:"installed,omitempty"` // targetID -> records
}

// Installed is one installation record in a fixture.
type Installed struct {
	ModuleID string `json:"module_id"`
	Version  string `json:"version,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// LoadFixture reads a JSON fixture file into a fresh store.
func LoadFixture(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	s := New()
	for _, m := range fx.Modules {
		s.AddModule(m)
	}
	for _, d := range fx.Dependencies {
		if err := s.UpsertEdge(context.Background(), d); err != nil {
			return nil, err
		}
	}
	for target, records := range fx.Installed {
		for _, rec := range records {
			s.Install(target, rec.ModuleID, rec.Version)
			if rec.Disabled {
				s.Disable(target, rec.ModuleID)
			}
		}
	}
	return s, nil
}

var (
	_ registry.Store           = (*Store)(nil)
	_ registry.VersionedSource = (*Store)(nil)
)
