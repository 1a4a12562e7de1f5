package domain

// GroupedResults is the results of one source, in their original relative
// order. It is derived from a response and never persisted.
type GroupedResults struct {
	// Source is the shared source of all results in the group.
	Source SearchSource

	// Results are the results of Source in response order.
	Results []SearchResult

	// Positions holds, for each entry of Results, its index in the flat
	// result sequence the group was built from.
	Positions []int
}

// Count returns the number of results in the group.
func (g GroupedResults) Count() int {
	return len(g.Results)
}

// Contains reports whether the flat index belongs to this group.
func (g GroupedResults) Contains(flatIndex int) bool {
	for _, p := range g.Positions {
		if p == flatIndex {
			return true
		}
	}
	return false
}

// GroupBySource partitions results into per-source groups emitted in
// DisplayOrder. Sources without results are omitted, and results whose
// source is not one of the known sources are dropped.
func GroupBySource(results []SearchResult) []GroupedResults {
	if len(results) == 0 {
		return []GroupedResults{}
	}

	buckets := make(map[SearchSource]*GroupedResults, len(DisplayOrder))
	for i := range results {
		src := results[i].Source
		if !src.IsKnown() {
			continue
		}
		g, ok := buckets[src]
		if !ok {
			g = &GroupedResults{Source: src}
			buckets[src] = g
		}
		g.Results = append(g.Results, results[i])
		g.Positions = append(g.Positions, i)
	}

	groups := make([]GroupedResults, 0, len(buckets))
	for _, src := range DisplayOrder {
		if g, ok := buckets[src]; ok && len(g.Results) > 0 {
			groups = append(groups, *g)
		}
	}
	return groups
}

// DroppedCount returns how many results GroupBySource would drop because
// their source is unknown.
func DroppedCount(results []SearchResult) int {
	n := 0
	for i := range results {
		if !results[i].Source.IsKnown() {
			n++
		}
	}
	return n
}
