package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOwner         = "owner"
	keyRemoteURL     = "remote.url"
	keyRemoteKey     = "remote.key"
	keyDataDir       = "storage.data_dir"
	keyEphemeral     = "storage.ephemeral"
	keyProbeInterval = "breaker.probe_interval"
	keyGenerateDelay = "synthesis.generate_delay_ms"
	keyModifyDelay   = "synthesis.modify_delay_ms"
	keyServerAddr    = "server.addr"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvRemoteURL = "FORMWRIGHT_REMOTE_URL"
	EnvRemoteKey = "FORMWRIGHT_REMOTE_KEY"
	EnvDataDir   = "FORMWRIGHT_DATA_DIR"
)

type settingKind int

const (
	kindString settingKind = iota
	kindBool
	kindMillis
	kindDuration
)

var settingKinds = map[string]settingKind{
	keyOwner:         kindString,
	keyRemoteURL:     kindString,
	keyRemoteKey:     kindString,
	keyDataDir:       kindString,
	keyEphemeral:     kindBool,
	keyProbeInterval: kindDuration,
	keyGenerateDelay: kindMillis,
	keyModifyDelay:   kindMillis,
	keyServerAddr:    kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.RemoteValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, validator driven.RemoteValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns the effective settings: defaults, then the config file, then
// environment overrides.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	if s.configStore == nil {
		s.applyEnv(&settings)
		return &settings, nil
	}

	settings.Owner = s.getString(keyOwner, settings.Owner)
	settings.Remote.URL = s.configStore.GetString(keyRemoteURL)
	settings.Remote.Key = s.configStore.GetString(keyRemoteKey)
	settings.Storage.DataDir = s.configStore.GetString(keyDataDir) // empty means the default location
	settings.Storage.Ephemeral = s.getBool(keyEphemeral, settings.Storage.Ephemeral)
	settings.Server.Addr = s.getString(keyServerAddr, settings.Server.Addr)

	probe, err := s.getDuration(keyProbeInterval, settings.Breaker.ProbeInterval)
	if err != nil {
		return nil, err
	}
	settings.Breaker.ProbeInterval = probe
	settings.Synthesis.GenerateDelay = s.getMillis(keyGenerateDelay, settings.Synthesis.GenerateDelay)
	settings.Synthesis.ModifyDelay = s.getMillis(keyModifyDelay, settings.Synthesis.ModifyDelay)

	s.applyEnv(&settings)
	return &settings, nil
}

// Set parses value for a known key and persists it.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindMillis:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number of milliseconds", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration such as 30s", domain.ErrInvalidInput, key)
		}
		parsed = d.String()
	}
	return s.configStore.Set(key, parsed)
}

// Unset removes a key so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Unset(key)
}

// Keys returns every settable key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateRemote checks the effective remote settings against the backend.
func (s *SettingsService) ValidateRemote(ctx context.Context) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Remote.IsConfigured() {
		return fmt.Errorf("%w: set %s and %s", domain.ErrRemoteUnavailable, keyRemoteURL, keyRemoteKey)
	}
	if s.validator == nil {
		return domain.ErrNotImplemented
	}
	return s.validator.ValidateRemote(ctx, settings.Remote)
}

func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.lookupEnv(EnvRemoteURL); ok {
		settings.Remote.URL = v
	}
	if v, ok := s.lookupEnv(EnvRemoteKey); ok {
		settings.Remote.Key = v
	}
	if v, ok := s.lookupEnv(EnvDataDir); ok && v != "" {
		settings.Storage.DataDir = v
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	n := s.configStore.GetInt(key)
	if n < 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Millisecond
}

// getDuration accepts a duration string ("45s") or a whole number of seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal, nil
	}
	if str := s.configStore.GetString(key); str != "" {
		d, err := time.ParseDuration(str)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %s = %q is not a positive duration", domain.ErrInvalidInput, key, str)
		}
		return d, nil
	}
	if n := s.configStore.GetInt(key); n > 0 {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("%w: %s must be a positive duration", domain.ErrInvalidInput, key)
}
