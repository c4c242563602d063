package settings

import "context"

// Repository stores the singleton settings row.
type Repository interface {
	// Load returns the current settings. Implementations return the seeded
	// defaults when no row has been written yet.
	Load(ctx context.Context) (SystemSettings, error)

	// Update replaces the settings row. Prospective only: already computed
	// summaries are never recomputed.
	Update(ctx context.Context, s SystemSettings) (SystemSettings, error)
}
