package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// Default client tuning.
const (
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 10
)

// Config holds the remote backend connection settings.
type Config struct {
	// URL is the project endpoint, e.g. https://abc.supabase.co.
	URL string

	// Key is the project access key.
	Key string

	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client

	// RequestsPerSecond caps the outbound request rate. Zero uses the default.
	RequestsPerSecond float64
}

// Validate reports whether the configuration names a real remote backend.
// Placeholder values, non-https or malformed endpoints, and short keys are
// rejected with domain.ErrRemoteUnavailable.
func (c Config) Validate() error {
	settings := domain.RemoteSettings{URL: c.URL, Key: c.Key}
	if !settings.IsConfigured() {
		return fmt.Errorf("%w: remote endpoint or key not configured", domain.ErrRemoteUnavailable)
	}
	return nil
}

// New validates cfg and returns a Store bound to it.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return newStore(cfg.URL, cfg.Key, client, rate.NewLimiter(rate.Limit(rps), DefaultBurst)), nil
}

func newStore(baseURL, key string, client *http.Client, limiter *rate.Limiter) *Store {
	return &Store{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		key:     strings.TrimSpace(key),
		client:  client,
		limiter: limiter,
	}
}
