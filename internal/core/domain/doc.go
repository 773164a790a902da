// Package domain defines the core business entities for Formwright.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Form: The root inspection form document
//   - Section: An ordered group of fields within a form
//   - Field: A single question within a section
//   - Template: A form-shaped starting point with a synthesis confidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
