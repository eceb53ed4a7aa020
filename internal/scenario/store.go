// Package scenario provides the read-only store of generated scenario
// instances. Scenario generation itself is an external concern; this
// package only loads the generator's JSON output and serves lookups.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vneplab/evalgrid/internal/model"
)

// Store is an immutable collection of scenario instances keyed by ID.
type Store struct {
	scenarios []model.ScenarioInstance
	byID      map[string]model.ScenarioInstance
}

// Load reads a JSON array of scenario instances from path. Scenario IDs
// must be unique.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario store %q: %w", path, err)
	}

	var scenarios []model.ScenarioInstance
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("decoding scenario store %q: %w", path, err)
	}

	byID := make(map[string]model.ScenarioInstance, len(scenarios))
	for _, s := range scenarios {
		if s.ScenarioID == "" {
			return nil, fmt.Errorf("scenario store %q: scenario with empty id", path)
		}
		if _, exists := byID[s.ScenarioID]; exists {
			return nil, fmt.Errorf("scenario store %q: duplicate scenario id %q", path, s.ScenarioID)
		}
		byID[s.ScenarioID] = s
	}

	return &Store{scenarios: scenarios, byID: byID}, nil
}

// NewStore builds a store from in-memory instances. Used by tests and by
// callers that generate scenarios programmatically.
func NewStore(scenarios []model.ScenarioInstance) (*Store, error) {
	byID := make(map[string]model.ScenarioInstance, len(scenarios))
	for _, s := range scenarios {
		if _, exists := byID[s.ScenarioID]; exists {
			return nil, fmt.Errorf("duplicate scenario id %q", s.ScenarioID)
		}
		byID[s.ScenarioID] = s
	}
	return &Store{scenarios: scenarios, byID: byID}, nil
}

// All returns the scenarios in load order.
func (s *Store) All() []model.ScenarioInstance {
	return s.scenarios
}

// Get returns the scenario with the given ID.
func (s *Store) Get(id string) (model.ScenarioInstance, bool) {
	instance, ok := s.byID[id]
	return instance, ok
}

// Len returns the number of scenarios in the store.
func (s *Store) Len() int {
	return len(s.scenarios)
}
