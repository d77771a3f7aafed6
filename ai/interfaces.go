package ai

import "context"

// QueryExpander suggests extra search keywords for a settings query.
// Implementations must be thread-safe for concurrent use.
type QueryExpander interface {
	// ExpandQuery returns lowercase keywords related to query, most relevant
	// first. Returns an empty slice if the model has nothing to add.
	ExpandQuery(ctx context.Context, query string) ([]string, error)
}
