package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDebounce       = "search.debounce"
	keyMinQueryLength = "search.min_query_length"
	keyCommunityLimit = "search.community_limit"
	keyDisplayLimit   = "search.display_limit"
	keyCacheTTL       = "cache.ttl"
	keyAURHelper      = "providers.aur_helper"
	keyAURRate        = "providers.aur_rate"

	keySchedulerEnabled  = "scheduler.enabled"
	keyCachePruneEnabled = "scheduler.cache_prune.enabled"
	keyCachePruneEvery   = "scheduler.cache_prune.interval"
	keyHistoryRetention  = "scheduler.history_retention"
)

func sourceEnabledKey(kind domain.SourceKind) string {
	return "sources." + string(kind) + ".enabled"
}

type valueKind int

const (
	kindBool valueKind = iota
	kindInt
	kindFloat
	kindDuration
	kindString
)

// settableKeys lists the keys accepted by SetValue.
var settableKeys = map[string]valueKind{
	sourceEnabledKey(domain.SourceOfficial):  kindBool,
	sourceEnabledKey(domain.SourceCommunity): kindBool,
	sourceEnabledKey(domain.SourceSandboxed): kindBool,
	keyDebounce:                              kindDuration,
	keyMinQueryLength:                        kindInt,
	keyCommunityLimit:                        kindInt,
	keyDisplayLimit:                          kindInt,
	keyCacheTTL:                              kindDuration,
	keyAURHelper:                             kindString,
	keyAURRate:                               kindFloat,
	keySchedulerEnabled:                      kindBool,
	keyCachePruneEnabled:                     kindBool,
	keyCachePruneEvery:                       kindDuration,
	keyHistoryRetention:                      kindInt,
}

// SettableKeys returns the configuration keys SetValue accepts.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or malformed
// values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	enabled := make(map[domain.SourceKind]bool, len(defaults.Sources.Enabled))
	for _, kind := range domain.AllSourceKinds() {
		enabled[kind] = s.getBool(sourceEnabledKey(kind), defaults.Sources.IsEnabled(kind))
	}

	settings := &domain.AppSettings{
		Sources: domain.SourceSettings{Enabled: enabled},
		Search: domain.SearchSettings{
			Debounce:       s.getDuration(keyDebounce, defaults.Search.Debounce),
			MinQueryLength: s.getPositiveInt(keyMinQueryLength, defaults.Search.MinQueryLength),
			CommunityLimit: s.getPositiveInt(keyCommunityLimit, defaults.Search.CommunityLimit),
			DisplayLimit:   s.getPositiveInt(keyDisplayLimit, defaults.Search.DisplayLimit),
		},
		Cache: domain.CacheSettings{
			TTL: s.getDuration(keyCacheTTL, defaults.Cache.TTL),
		},
		Providers: domain.ProviderSettings{
			AURHelper: s.configStore.GetString(keyAURHelper),
			AURRate:   s.getPositiveFloat(keyAURRate, defaults.Providers.AURRate),
		},
	}
	settings.Search.Debounce = settings.Search.ClampedDebounce()

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}

	for _, kind := range domain.AllSourceKinds() {
		if err := s.configStore.Set(sourceEnabledKey(kind), settings.Sources.IsEnabled(kind)); err != nil {
			return fmt.Errorf("save %s enabled: %w", kind, err)
		}
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDebounce, settings.Search.Debounce.String()},
		{keyMinQueryLength, settings.Search.MinQueryLength},
		{keyCommunityLimit, settings.Search.CommunityLimit},
		{keyDisplayLimit, settings.Search.DisplayLimit},
		{keyCacheTTL, settings.Cache.TTL.String()},
		{keyAURHelper, settings.Providers.AURHelper},
		{keyAURRate, settings.Providers.AURRate},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetSourceEnabled switches a source on or off.
func (s *SettingsService) SetSourceEnabled(kind domain.SourceKind, enabled bool) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, kind)
	}
	if err := s.configStore.Set(sourceEnabledKey(kind), enabled); err != nil {
		return fmt.Errorf("save %s enabled: %w", kind, err)
	}
	return nil
}

// SetValue parses value according to key's type and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s expects a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s expects a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s expects a duration such as 500ms", domain.ErrInvalidInput, key)
		}
		if key == keyDebounce && (d < domain.MinDebounce || d > domain.MaxDebounce) {
			return fmt.Errorf("%w: %s must be between %s and %s",
				domain.ErrInvalidInput, key, domain.MinDebounce, domain.MaxDebounce)
		}
		parsed = d.String()
	case kindString:
		if key == keyAURHelper && value != "" && !isSupportedHelper(value) {
			return fmt.Errorf("%w: %s must be one of %s",
				domain.ErrInvalidInput, key, strings.Join(domain.SupportedAURHelpers(), ", "))
		}
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if len(settings.Sources.EnabledKinds()) == 0 {
		return domain.ErrNoSourcesEnabled
	}
	if helper := settings.Providers.AURHelper; helper != "" && !isSupportedHelper(helper) {
		return fmt.Errorf("%w: unsupported AUR helper %q", domain.ErrInvalidInput, helper)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Reload re-reads settings from storage.
func (s *SettingsService) Reload() error {
	if err := s.configStore.Load(); err != nil {
		return fmt.Errorf("reload settings: %w", err)
	}
	return nil
}

// GetSchedulerConfig returns the scheduler configuration.
// Unset or invalid keys keep their defaults.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()

	cfg.Enabled = s.getBool(keySchedulerEnabled, cfg.Enabled)
	cfg.HistoryRetention = s.getPositiveInt(keyHistoryRetention, cfg.HistoryRetention)

	prune := cfg.TaskConfigs[domain.TaskIDCachePrune]
	prune.Enabled = s.getBool(keyCachePruneEnabled, prune.Enabled)
	// "0s" retires the task.
	prune.Interval = s.getDuration(keyCachePruneEvery, prune.Interval)
	cfg.TaskConfigs[domain.TaskIDCachePrune] = prune

	return cfg
}

func isSupportedHelper(name string) bool {
	for _, h := range domain.SupportedAURHelpers() {
		if h == name {
			return true
		}
	}
	return false
}

// Helper methods for reading config values with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	b, ok := val.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

// getDuration reads a duration string such as "500ms". A stored zero is
// honoured so that "cache.ttl = 0s" disables the cache.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	str := s.configStore.GetString(key)
	if str == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(str)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
