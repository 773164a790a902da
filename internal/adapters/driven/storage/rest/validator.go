package rest

import (
	"context"
	"net/http"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driven"
)

// Ensure Validator implements the interface.
var _ driven.RemoteValidator = (*Validator)(nil)

// Validator checks remote settings by pinging the forms table.
type Validator struct {
	// HTTPClient overrides the default client. Optional.
	HTTPClient *http.Client
}

// NewValidator creates a validator using the default HTTP client settings.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRemote returns nil if settings reach a working backend.
func (v *Validator) ValidateRemote(ctx context.Context, settings domain.RemoteSettings) error {
	store, err := New(Config{URL: settings.URL, Key: settings.Key, HTTPClient: v.HTTPClient})
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}
