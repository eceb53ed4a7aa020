package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneplab/evalgrid/internal/model"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeStore(t, `[
		{"scenario_id": "s1", "generation_parameters": {"number_of_requests": 40, "topology": "Geant2012"}},
		{"scenario_id": "s2", "generation_parameters": {"number_of_requests": 60, "topology": "Uunet"}}
	]`)

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	s1, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, float64(40), s1.GenerationParameters["number_of_requests"])
	assert.Equal(t, "Geant2012", s1.GenerationParameters["topology"])

	_, ok = store.Get("missing")
	assert.False(t, ok)

	all := store.All()
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].ScenarioID)
	assert.Equal(t, "s2", all[1].ScenarioID)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeStore(t, `[
		{"scenario_id": "s1", "generation_parameters": {}},
		{"scenario_id": "s1", "generation_parameters": {}}
	]`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "duplicate scenario id")
}

func TestLoadRejectsEmptyID(t *testing.T) {
	path := writeStore(t, `[{"generation_parameters": {}}]`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "empty id")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMalformedDocument(t *testing.T) {
	path := writeStore(t, `{"not": "an array"}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	store, err := NewStore([]model.ScenarioInstance{
		{ScenarioID: "s1"},
		{ScenarioID: "s2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	_, err = NewStore([]model.ScenarioInstance{{ScenarioID: "s1"}, {ScenarioID: "s1"}})
	assert.Error(t, err)
}
