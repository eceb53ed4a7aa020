// Package filter partitions plot records into groups for plotting. For a
// set of candidate generation-parameter keys it enumerates every subset up
// to a maximum depth and, per subset, partitions the records by the value
// tuple they take on the subset's keys. The empty subset yields the single
// "no filter" group over all records.
//
// Group count grows combinatorially with depth; bounding it is deliberately
// the caller's job, since the caller decides how many figures are
// acceptable.
package filter

import (
	"sort"
	"strings"

	"github.com/vneplab/evalgrid/internal/model"
)

// Group is one cell of the partition for one key subset: the records whose
// generation parameters take exactly Values on Keys.
type Group struct {
	// Keys is the subset, in candidate-key order. Empty for the "no
	// filter" group.
	Keys []string
	// Values maps each key of the subset to this group's value.
	Values map[string]any
	// Members are the records of this group, in input order.
	Members []model.PlotRecord
}

// Label renders the group for titles and logs, e.g.
// "number_of_requests=40; edge_resource_factor=0.5".
func (g Group) Label() string {
	if len(g.Keys) == 0 {
		return "no filter"
	}
	parts := make([]string, len(g.Keys))
	for i, key := range g.Keys {
		parts[i] = key + "=" + FormatScalar(g.Values[key])
	}
	return strings.Join(parts, "; ")
}

// Subsets enumerates every subset of keys of size 0 through maxDepth, in
// deterministic order: by size ascending, then lexicographically over key
// positions. The first subset is always the empty one.
func Subsets(keys []string, maxDepth int) [][]string {
	if maxDepth > len(keys) {
		maxDepth = len(keys)
	}
	subsets := [][]string{nil}
	for size := 1; size <= maxDepth; size++ {
		combinations(len(keys), size, func(indices []int) {
			subset := make([]string, size)
			for i, idx := range indices {
				subset[i] = keys[idx]
			}
			subsets = append(subsets, subset)
		})
	}
	return subsets
}

// combinations calls visit with every size-k index combination of 0..n-1 in
// lexicographic order. The slice passed to visit is reused between calls.
func combinations(n, k int, visit func(indices []int)) {
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		visit(indices)
		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// Groups partitions records once per enumerated subset and concatenates the
// results in subset order. Within a subset, groups are ordered by their
// value tuple; records missing a value for any key of a subset are excluded
// from that subset's partition (never coerced). For a fixed subset the
// groups are a strict partition of the records that carry all its keys.
func Groups(records []model.PlotRecord, candidateKeys []string, maxDepth int) []Group {
	var groups []Group
	for _, subset := range Subsets(candidateKeys, maxDepth) {
		groups = append(groups, partition(records, subset)...)
	}
	return groups
}

// partition splits records by their value tuple on the given subset keys.
func partition(records []model.PlotRecord, subset []string) []Group {
	if len(subset) == 0 {
		members := make([]model.PlotRecord, len(records))
		copy(members, records)
		return []Group{{Members: members}}
	}

	type bucket struct {
		values  map[string]any
		tuple   []any
		members []model.PlotRecord
	}
	buckets := make(map[string]*bucket)

	for _, rec := range records {
		values := make(map[string]any, len(subset))
		tuple := make([]any, len(subset))
		keyParts := make([]string, len(subset))
		complete := true
		for i, key := range subset {
			value, ok := rec.GenerationParameters[key]
			if !ok || value == nil {
				complete = false
				break
			}
			values[key] = value
			tuple[i] = value
			keyParts[i] = FormatScalar(value)
		}
		if !complete {
			continue
		}
		id := strings.Join(keyParts, "\x1f")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{values: values, tuple: tuple}
			buckets[id] = b
		}
		b.members = append(b.members, rec)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return compareTuples(ordered[i].tuple, ordered[j].tuple) < 0
	})

	groups := make([]Group, len(ordered))
	for i, b := range ordered {
		groups[i] = Group{Keys: subset, Values: b.values, Members: b.members}
	}
	return groups
}

func compareTuples(a, b []any) int {
	for i := range a {
		if c := compareScalars(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Prune drops records excluded from evaluation: whole scenarios listed as
// forbidden, and records whose generation parameter takes an excluded
// value. It mirrors the original evaluation's pre-filtering and runs before
// any grouping.
func Prune(records []model.PlotRecord, exclude map[string][]any, forbiddenScenarios []string) []model.PlotRecord {
	forbidden := make(map[string]bool, len(forbiddenScenarios))
	for _, id := range forbiddenScenarios {
		forbidden[id] = true
	}

	kept := make([]model.PlotRecord, 0, len(records))
next:
	for _, rec := range records {
		if forbidden[rec.ScenarioID] {
			continue
		}
		for key, values := range exclude {
			have, ok := rec.GenerationParameters[key]
			if !ok {
				continue
			}
			for _, value := range values {
				if scalarsEqual(have, value) {
					continue next
				}
			}
		}
		kept = append(kept, rec)
	}
	return kept
}
