package domain

import (
	"net/url"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// Placeholder values shipped in example environment files. A remote backend
// configured with either is treated as unconfigured.
const (
	PlaceholderRemoteURL = "your-supabase-project-url"
	PlaceholderRemoteKey = "your-supabase-anon-key"
)

// minRemoteKeyLength is the shortest access key accepted as real.
const minRemoteKeyLength = 21

// StorageMode describes which backends serve persistence calls.
type StorageMode string

// Available storage modes.
const (
	// StorageModeLocal uses only the local record store.
	StorageModeLocal StorageMode = "local"

	// StorageModeRemote routes to the remote backend with local fallback.
	StorageModeRemote StorageMode = "remote"

	// StorageModeDegraded means the remote backend is configured but the
	// breaker is open, so calls are served locally.
	StorageModeDegraded StorageMode = "degraded"
)

// String returns the string representation.
func (m StorageMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m StorageMode) Description() string {
	switch m {
	case StorageModeLocal:
		return "Local only"
	case StorageModeRemote:
		return "Remote (local fallback)"
	case StorageModeDegraded:
		return "Degraded (remote failing, serving local)"
	default:
		return unknownDescription
	}
}

// RemoteSettings holds the remote relational backend connection.
type RemoteSettings struct {
	// URL is the project endpoint, e.g. https://abc.supabase.co.
	URL string

	// Key is the access credential sent with every request.
	Key string
}

// IsConfigured returns true if both endpoint and credential are real values:
// not placeholders, an https URL on a supabase.co host, and a key longer
// than 20 characters.
func (r RemoteSettings) IsConfigured() bool {
	return r.validURL() && r.validKey()
}

func (r RemoteSettings) validURL() bool {
	raw := strings.TrimSpace(r.URL)
	if raw == "" || raw == PlaceholderRemoteURL {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return false
	}
	return strings.Contains(u.Host, ".supabase.co")
}

func (r RemoteSettings) validKey() bool {
	key := strings.TrimSpace(r.Key)
	return key != "" && key != PlaceholderRemoteKey && len(key) >= minRemoteKeyLength
}

// StorageSettings holds local storage configuration.
type StorageSettings struct {
	// DataDir holds the local SQLite record store.
	// Empty means ~/.formwright/data.
	DataDir string

	// Ephemeral keeps local records in memory only.
	Ephemeral bool
}

// BreakerSettings tunes remote failover.
type BreakerSettings struct {
	// ProbeInterval is the minimum gap between re-probes of a failing remote.
	ProbeInterval time.Duration
}

// SynthesisSettings tunes the template synthesis engine.
type SynthesisSettings struct {
	// GenerateDelay is the simulated latency of a generation request.
	GenerateDelay time.Duration

	// ModifyDelay is the simulated latency of a modification request.
	ModifyDelay time.Duration
}

// ServerSettings holds the HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Owner is recorded as createdBy on new forms.
	Owner string

	Remote    RemoteSettings
	Storage   StorageSettings
	Breaker   BreakerSettings
	Synthesis SynthesisSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The remote backend is left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Owner: DefaultOwner,
		Breaker: BreakerSettings{
			ProbeInterval: 30 * time.Second,
		},
		Synthesis: SynthesisSettings{
			GenerateDelay: 1500 * time.Millisecond,
			ModifyDelay:   1000 * time.Millisecond,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}

// StorageHealth is a snapshot of the persistence routing state.
type StorageHealth struct {
	Mode StorageMode `json:"mode"`

	// DegradedSince is when the remote backend last became unavailable.
	// Zero unless Mode is StorageModeDegraded.
	DegradedSince time.Time `json:"degradedSince,omitempty"`

	// LastError describes the most recent remote failure.
	LastError string `json:"lastError,omitempty"`

	// Trips counts how often the remote backend has been taken out of rotation.
	Trips int `json:"trips"`
}
