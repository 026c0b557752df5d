package settingsRepo

import (
	"context"
	"sync"

	"pethaven/config"
	"pethaven/models"
)

// SettingsRepository supplies the hotel-wide settings snapshot for a
// resolution call.
type SettingsRepository interface {
	// GetActiveSettings returns the current settings, falling back to the
	// configured defaults when no row exists.
	GetActiveSettings(ctx context.Context) (models.HotelSettings, error)
}

// MemorySettingsRepo keeps the settings row in memory.
type MemorySettingsRepo struct {
	mu  sync.RWMutex
	row *models.HotelSettings
}

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{}
}

// Set stores the active settings row.
func (r *MemorySettingsRepo) Set(s models.HotelSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.row = &s
}

func (r *MemorySettingsRepo) GetActiveSettings(ctx context.Context) (models.HotelSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.row != nil {
		return *r.row, nil
	}
	return DefaultSettings(), nil
}

// DefaultSettings builds the fallback settings from the app configuration:
// by-day calculation, check-in 15:00, check-out 12:00 unless overridden.
func DefaultSettings() models.HotelSettings {
	mode := models.CalculationMode(config.AppConfig.CalculationMode)
	if mode != models.ModeByNight {
		mode = models.ModeByDay
	}
	s := models.HotelSettings{
		Mode:         mode,
		CheckInTime:  config.AppConfig.CheckInTime,
		CheckOutTime: config.AppConfig.CheckOutTime,
	}
	if s.CheckInTime == "" {
		s.CheckInTime = "15:00"
	}
	if s.CheckOutTime == "" {
		s.CheckOutTime = "12:00"
	}
	return s
}
