package plot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vneplab/evalgrid/internal/filter"
)

func TestFigurePath(t *testing.T) {
	t.Run("no filter group", func(t *testing.T) {
		path := figurePath("out", "objective", filter.Group{})
		assert.Equal(t, filepath.Join("out", "objective__no_filter.png"), path)
	})

	t.Run("single key", func(t *testing.T) {
		group := filter.Group{
			Keys:   []string{"number_of_requests"},
			Values: map[string]any{"number_of_requests": float64(40)},
		}
		path := figurePath("out", "objective", group)
		assert.Equal(t, filepath.Join("out", "number_of_requests_40", "objective__number_of_requests_40.png"), path)
	})

	t.Run("two keys nest directories in key order", func(t *testing.T) {
		group := filter.Group{
			Keys: []string{"number_of_requests", "topology"},
			Values: map[string]any{
				"number_of_requests": float64(60),
				"topology":           "Geant2012",
			},
		}
		path := figurePath("out", "runtime_seconds", group)
		want := filepath.Join("out", "number_of_requests_60", "topology_Geant2012",
			"runtime_seconds__number_of_requests_60__topology_Geant2012.png")
		assert.Equal(t, want, path)
	})

	t.Run("values are path sanitized", func(t *testing.T) {
		group := filter.Group{
			Keys:   []string{"profile"},
			Values: map[string]any{"profile": "a/b c"},
		}
		path := figurePath("out", "objective", group)
		assert.Equal(t, filepath.Join("out", "profile_a-b-c", "objective__profile_a-b-c.png"), path)
	})

	t.Run("deterministic", func(t *testing.T) {
		group := filter.Group{
			Keys:   []string{"edge_resource_factor"},
			Values: map[string]any{"edge_resource_factor": 0.5},
		}
		assert.Equal(t,
			figurePath("out", "objective", group),
			figurePath("out", "objective", group),
		)
	})
}
