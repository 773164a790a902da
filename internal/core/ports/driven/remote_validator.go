package driven

import (
	"context"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// RemoteValidator checks remote backend settings by contacting the backend.
type RemoteValidator interface {
	// ValidateRemote returns nil if the settings reach a working backend.
	// Unconfigured settings yield domain.ErrRemoteUnavailable.
	ValidateRemote(ctx context.Context, settings domain.RemoteSettings) error
}
