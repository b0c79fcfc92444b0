package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/incubase/attendance-backend-go/internal/domain/settings"
)

const cacheTTL = 5 * time.Minute

// SettingsServiceImpl serves the settings singleton through a bounded
// in-memory memo. Every write path invalidates under the same lock as the
// persist, so readers never see a stale post-update value.
type SettingsServiceImpl struct {
	repo            settings.SettingsRepository
	defaultTimezone string

	mu       sync.Mutex
	cached   *settings.AttendanceSettings
	cachedAt time.Time

	now func() time.Time
}

func NewSettingsService(repo settings.SettingsRepository, defaultTimezone string) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:            repo,
		defaultTimezone: defaultTimezone,
		now:             time.Now,
	}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.AttendanceSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.cachedAt) < cacheTTL {
		return *s.cached, nil
	}

	set, err := s.repo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.AttendanceSettings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		set, err = s.repo.Create(ctx, settings.DefaultSettings(s.defaultTimezone))
		if err != nil {
			return settings.AttendanceSettings{}, fmt.Errorf("failed to seed default settings: %w", err)
		}
	}

	s.cached = &set
	s.cachedAt = s.now()
	return set, nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.AttendanceSettings, error) {
	if err := req.Validate(); err != nil {
		return settings.AttendanceSettings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.GetActive(ctx)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingsNotFound) {
			return settings.AttendanceSettings{}, fmt.Errorf("failed to load settings: %w", err)
		}
		current = settings.DefaultSettings(s.defaultTimezone)
		current, err = s.repo.Create(ctx, current)
		if err != nil {
			return settings.AttendanceSettings{}, fmt.Errorf("failed to seed default settings: %w", err)
		}
	}

	if req.Shifts != nil {
		if current.Shifts == nil {
			current.Shifts = map[string]settings.ShiftConfig{}
		}
		for name, cfg := range req.Shifts {
			cfg.Name = name
			current.Shifts[name] = cfg
		}
	}
	if req.EarlyCheckInAllowanceMinutes != nil {
		current.EarlyCheckInAllowanceMinutes = *req.EarlyCheckInAllowanceMinutes
	}
	if req.Timezone != nil {
		current.Timezone = *req.Timezone
	}
	if req.IPAllowList != nil {
		current.IPAllowList = *req.IPAllowList
	}
	if req.AutoAbsentHour != nil {
		current.AutoAbsentHour = req.AutoAbsentHour
	}
	if req.SweepHour != nil {
		current.SweepHour = *req.SweepHour
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to persist settings: %w", err)
	}

	s.cached = &updated
	s.cachedAt = s.now()
	return updated, nil
}

// Invalidate implements settings.SettingsService.
func (s *SettingsServiceImpl) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}
