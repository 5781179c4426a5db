package driven

// ConfigStore is the settings backend. Keys are dotted paths into the
// settings tree, e.g. "sources.aur.enabled" or "search.debounce".
//
// The typed getters return the zero value when a key is absent or holds
// a different type, so callers apply their own defaults. GetInt truncates
// floats since TOML and JSON decoders disagree on number types.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set writes through to storage. On failure the previous value is kept.
	Set(key string, value any) error

	Save() error

	// Load replaces the in-memory view with what storage holds. A file
	// that fails to parse leaves the current values in place.
	Load() error

	// Path identifies the backing file for display in the CLI.
	Path() string
}
