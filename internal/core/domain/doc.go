// Package domain defines the core business entities for notesearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchSource: One of the five integrated services
//   - SearchResult: A single hit returned by the search webhook
//   - SearchResponse: The aggregated webhook response with partial failures
//   - GroupedResults: Results partitioned by source in display order
//   - RecentSearch: A persisted entry of the recent-search list
//   - SessionSnapshot: A point-in-time copy of a search session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
