package domain

import "time"

const unknownDescription = "Unknown"

// Debounce bounds. Keystrokes closer together than the debounce window
// start at most one session.
const (
	MinDebounce     = 250 * time.Millisecond
	MaxDebounce     = 500 * time.Millisecond
	DefaultDebounce = 500 * time.Millisecond
)

// SourceSettings controls which sources are queried.
type SourceSettings struct {
	// Enabled maps each source to its switch. Missing kinds are enabled.
	Enabled map[SourceKind]bool
}

// IsEnabled returns true if the source should be queried.
func (s SourceSettings) IsEnabled(kind SourceKind) bool {
	if s.Enabled == nil {
		return true
	}
	enabled, ok := s.Enabled[kind]
	return !ok || enabled
}

// EnabledKinds returns the enabled sources in authority order.
func (s SourceSettings) EnabledKinds() []SourceKind {
	var kinds []SourceKind
	for _, k := range AllSourceKinds() {
		if s.IsEnabled(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Debounce is the quiet period before a typed query starts a session.
	Debounce time.Duration

	// MinQueryLength is the shortest query that starts a session.
	MinQueryLength int

	// CommunityLimit truncates community batches before aggregation.
	CommunityLimit int

	// DisplayLimit caps how many entries a renderer shows.
	DisplayLimit int
}

// ClampedDebounce returns Debounce within [MinDebounce, MaxDebounce].
func (s SearchSettings) ClampedDebounce() time.Duration {
	switch {
	case s.Debounce <= 0:
		return DefaultDebounce
	case s.Debounce < MinDebounce:
		return MinDebounce
	case s.Debounce > MaxDebounce:
		return MaxDebounce
	default:
		return s.Debounce
	}
}

// CacheSettings holds result cache configuration.
type CacheSettings struct {
	// TTL is how long a provider result is reused. Zero disables caching.
	TTL time.Duration
}

// Enabled returns true if provider results should be cached.
func (c CacheSettings) Enabled() bool {
	return c.TTL > 0
}

// ProviderSettings configures the package tool adapters.
type ProviderSettings struct {
	// AURHelper is the AUR helper binary. Empty means auto-detect.
	AURHelper string

	// AURRate is the permitted AUR helper invocations per second.
	AURRate float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Sources holds per-source switches.
	Sources SourceSettings

	// Search holds search behaviour settings.
	Search SearchSettings

	// Cache holds result cache settings.
	Cache CacheSettings

	// Providers holds package tool settings.
	Providers ProviderSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Sources: SourceSettings{
			Enabled: map[SourceKind]bool{
				SourceOfficial:  true,
				SourceCommunity: true,
				SourceSandboxed: true,
			},
		},
		Search: SearchSettings{
			Debounce:       DefaultDebounce,
			MinQueryLength: 2,
			CommunityLimit: 20,
			DisplayLimit:   50,
		},
		Cache: CacheSettings{
			TTL: 10 * time.Minute,
		},
		Providers: ProviderSettings{
			AURRate: 2,
		},
	}
}

// SupportedAURHelpers lists the helpers probed during auto-detection, in order.
func SupportedAURHelpers() []string {
	return []string{"yay", "paru"}
}
