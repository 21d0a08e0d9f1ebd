// Package settings persists user preferences as independent JSON values,
// one key per preference, on top of a flat key/value store.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/workboard/internal/model"
	"github.com/nhle/workboard/internal/store"
)

// ThemeKey is stored without the setting_ prefix.
const ThemeKey = "theme"

type field struct {
	key string
	ptr func(*model.Settings) any
}

var fields = []field{
	{"setting_name", func(s *model.Settings) any { return &s.Name }},
	{"setting_email", func(s *model.Settings) any { return &s.Email }},
	{"setting_phone", func(s *model.Settings) any { return &s.Phone }},
	{"setting_location", func(s *model.Settings) any { return &s.Location }},
	{"setting_bio", func(s *model.Settings) any { return &s.Bio }},
	{"setting_emailNotifications", func(s *model.Settings) any { return &s.EmailNotifications }},
	{"setting_pushNotifications", func(s *model.Settings) any { return &s.PushNotifications }},
	{"setting_taskUpdates", func(s *model.Settings) any { return &s.TaskUpdates }},
	{"setting_teamMentions", func(s *model.Settings) any { return &s.TeamMentions }},
	{"setting_weeklyDigest", func(s *model.Settings) any { return &s.WeeklyDigest }},
	{"setting_marketingEmails", func(s *model.Settings) any { return &s.MarketingEmails }},
	{"setting_profileVisibility", func(s *model.Settings) any { return &s.ProfileVisibility }},
	{"setting_activityStatus", func(s *model.Settings) any { return &s.ActivityStatus }},
	{"setting_dataSharing", func(s *model.Settings) any { return &s.DataSharing }},
	{ThemeKey, func(s *model.Settings) any { return &s.Theme }},
	{"setting_language", func(s *model.Settings) any { return &s.Language }},
	{"setting_timezone", func(s *model.Settings) any { return &s.Timezone }},
	{"setting_dateFormat", func(s *model.Settings) any { return &s.DateFormat }},
	{"setting_twoFactorAuth", func(s *model.Settings) any { return &s.TwoFactorAuth }},
	{"setting_sessionTimeout", func(s *model.Settings) any { return &s.SessionTimeout }},
	{"setting_loginAlerts", func(s *model.Settings) any { return &s.LoginAlerts }},
}

// Service reads and writes model.Settings through a SettingsStore.
type Service struct {
	store store.SettingsStore
	log   log.FieldLogger
}

// NewService creates a Service. A nil logger uses the logrus standard
// logger.
func NewService(s store.SettingsStore, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{store: s, log: logger}
}

// Load returns the saved settings. Keys that were never saved, or whose
// value no longer decodes, keep their default.
func (s *Service) Load(ctx context.Context) (model.Settings, error) {
	out := model.DefaultSettings()

	stored, err := s.store.AllSettings(ctx)
	if err != nil {
		return out, fmt.Errorf("loading settings: %w", err)
	}
	raw := make(map[string]string, len(stored))
	for _, st := range stored {
		raw[st.Key] = st.Value
	}

	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		next := out
		if err := sonic.UnmarshalString(v, f.ptr(&next)); err != nil {
			s.log.WithFields(log.Fields{
				"key":   f.key,
				"error": err,
			}).Warn("ignoring undecodable setting")
			continue
		}
		out = next
	}

	if !out.Theme.Valid() {
		s.log.WithField("theme", out.Theme).Warn("ignoring unknown theme")
		out.Theme = model.DefaultSettings().Theme
	}

	return out, nil
}

// Save writes every field of st under its own key.
func (s *Service) Save(ctx context.Context, st model.Settings) error {
	for _, f := range fields {
		if err := s.Set(ctx, f.key, f.ptr(&st)); err != nil {
			return err
		}
	}
	s.log.Debug("settings saved")
	return nil
}

// SetTheme persists only the theme.
func (s *Service) SetTheme(ctx context.Context, t model.Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	return s.Set(ctx, ThemeKey, t)
}

// Theme returns the saved theme. A theme that was never saved, or that no
// longer decodes to a known theme, yields the default.
func (s *Service) Theme(ctx context.Context) (model.Theme, error) {
	def := model.DefaultSettings().Theme

	var t model.Theme
	found, err := s.Get(ctx, ThemeKey, &t)
	switch {
	case err != nil && !found:
		return def, fmt.Errorf("loading theme: %w", err)
	case err != nil:
		s.log.WithError(err).Warn("ignoring undecodable theme")
		return def, nil
	case !found:
		return def, nil
	case !t.Valid():
		s.log.WithField("theme", t).Warn("ignoring unknown theme")
		return def, nil
	}
	return t, nil
}

// Get decodes the value stored under key into dest. found is false when
// the key has never been saved.
func (s *Service) Get(ctx context.Context, key string, dest any) (found bool, err error) {
	v, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := sonic.UnmarshalString(v, dest); err != nil {
		return true, fmt.Errorf("decoding setting %s: %w", key, err)
	}
	return true, nil
}

// Set stores any JSON-serializable value under key.
func (s *Service) Set(ctx context.Context, key string, v any) error {
	data, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Errorf("encoding setting %s: %w", key, err)
	}
	if err := s.store.SetSetting(ctx, key, data); err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// Reset deletes every stored preference so the defaults apply again.
func (s *Service) Reset(ctx context.Context) error {
	for _, f := range fields {
		if err := s.store.DeleteSetting(ctx, f.key); err != nil {
			return fmt.Errorf("resetting settings: %w", err)
		}
	}
	s.log.Info("settings reset to defaults")
	return nil
}
