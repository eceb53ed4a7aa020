package plot

import (
	"path/filepath"
	"strings"

	"github.com/vneplab/evalgrid/internal/filter"
)

// figurePath builds the output path for one (group, metric) figure. Each
// filter key/value pair becomes one directory level, and the file name
// repeats the pairs so figures remain identifiable when copied out of the
// tree. The empty subset renders as "<metric>__no_filter.png" at the root.
// The layout is deterministic, which makes re-runs skippable by existence
// check.
func figurePath(outputDir, metric string, group filter.Group) string {
	if len(group.Keys) == 0 {
		return filepath.Join(outputDir, metric+"__no_filter.png")
	}

	dir := outputDir
	parts := make([]string, len(group.Keys))
	for i, key := range group.Keys {
		pair := key + "_" + sanitize(filter.FormatScalar(group.Values[key]))
		dir = filepath.Join(dir, pair)
		parts[i] = pair
	}
	return filepath.Join(dir, metric+"__"+strings.Join(parts, "__")+".png")
}

// sanitize keeps parameter values path-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
}
