package settings

import "context"

type Service interface {
	Get(ctx context.Context) (SettingsResponse, error)

	// Update is prospective only: summaries computed before the change keep
	// the figures they were computed with.
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
