package services

import (
	"context"
	"strings"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/repository"
)

type SettingsService interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpdateSetting(ctx context.Context, key, value string) (map[string]string, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// UpdateSetting creates the key when it does not exist yet.
func (s *settingsService) UpdateSetting(ctx context.Context, key, value string) (map[string]string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperror.Validation("setting key is required")
	}
	setting, err := s.settingsRepo.Upsert(ctx, key, value)
	if err != nil {
		return nil, err
	}
	return map[string]string{setting.Key: setting.Value}, nil
}
