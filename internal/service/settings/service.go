package settings

import (
	"context"
	"fmt"

	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	repo settings.Repository
}

func NewSettingsService(repo settings.Repository) settings.Service {
	return &SettingsServiceImpl{repo: repo}
}

// Get implements settings.Service.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.ToResponse(cfg), nil
}

// Update implements settings.Service.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.repo.Load(ctx)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	updated, err := s.repo.Update(ctx, req.Apply(current))
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}

	return settings.ToResponse(updated), nil
}
