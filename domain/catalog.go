package domain

import "context"

// StoryCatalog is the read-only view of the content catalog this subsystem
// consults. The catalog itself (titles, bodies, categories) is owned elsewhere.
type StoryCatalog interface {
	// Exists reports whether the story is part of the catalog.
	Exists(ctx context.Context, storyID int64) (bool, error)

	// IDs returns every catalog story identifier. Feeds the client-side
	// known-identifier set so it cannot drift from the catalog.
	IDs(ctx context.Context) ([]int64, error)
}
