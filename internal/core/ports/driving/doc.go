// Package driving defines interfaces that external actors (CLI, HTTP API) use
// to interact with core services. These are the "driving" ports in hexagonal
// architecture terminology - they drive the application.
//
// Implementations of these interfaces live in internal/core/services.
// Form editing itself is not a port: the mutation package is pure and is
// called directly.
package driving
