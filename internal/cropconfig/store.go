// Package cropconfig persists per-sector island crop/week assignments as a
// single JSON document: sector -> island id -> {cropType, week}.
//
// The store is deliberately forgiving: a missing or malformed file behaves
// as if nothing were stored and built-in defaults apply. Corruption is
// logged and recovered locally, never surfaced to callers.
package cropconfig

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"vpd-analysis/internal/model"
)

// SectorConfig maps island id to its assignment within one sector.
type SectorConfig map[string]model.IslandAssignment

// Store is a file-backed assignment store. Safe for concurrent use from a
// single process; writes are last-write-wins.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]SectorConfig
}

// NewStore opens (or initializes) the store at path. A read or parse
// failure falls back to an empty store so defaults apply.
func NewStore(path string) *Store {
	s := &Store{path: path, data: map[string]SectorConfig{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[cropconfig] read %s: %v (using defaults)", path, err)
		}
		return s
	}
	var parsed map[string]SectorConfig
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("[cropconfig] parse %s: %v (using defaults)", path, err)
		return s
	}
	// Drop individually invalid entries instead of rejecting the file.
	for sector, cfg := range parsed {
		clean := SectorConfig{}
		for island, a := range cfg {
			if err := a.Validate(); err != nil {
				log.Printf("[cropconfig] %s/%s: %v (ignored)", sector, island, err)
				continue
			}
			clean[island] = a
		}
		if len(clean) > 0 {
			s.data[sector] = clean
		}
	}
	return s
}

// Get returns the assignment for an island in a sector, falling back to the
// built-in defaults when nothing is stored. The second result reports
// whether the value came from the store.
func (s *Store) Get(sector, islandID string) (model.IslandAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cfg, ok := s.data[sector]; ok {
		if a, ok := cfg[islandID]; ok {
			return a, true
		}
	}
	if a, ok := model.DefaultAssignments()[islandID]; ok {
		return a, false
	}
	// Unknown island: treat as unplanted mixed.
	return model.IslandAssignment{CropType: model.CropMixed, GrowthWeek: 0}, false
}

// Sector returns the effective assignments for every island in a sector:
// defaults overlaid with whatever is stored.
func (s *Store) Sector(sector string) SectorConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := SectorConfig{}
	for island, a := range model.DefaultAssignments() {
		out[island] = a
	}
	for island, a := range s.data[sector] {
		out[island] = a
	}
	return out
}

// Set stores an assignment for one island and persists the document.
func (s *Store) Set(sector, islandID string, a model.IslandAssignment) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid assignment for %s/%s: %w", sector, islandID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.data[sector]
	if !ok {
		cfg = SectorConfig{}
		s.data[sector] = cfg
	}
	cfg[islandID] = a
	return s.flushLocked()
}

// Clear removes every stored assignment for a sector, returning the sector
// to defaults.
func (s *Store) Clear(sector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[sector]; !ok {
		return nil
	}
	delete(s.data, sector)
	return s.flushLocked()
}

// Sectors lists sectors that have stored (non-default) configuration.
func (s *Store) Sectors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.data))
	for sector := range s.data {
		out = append(out, sector)
	}
	return out
}

func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}
