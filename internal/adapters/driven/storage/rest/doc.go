// Package rest implements driven.FormStore against a hosted relational backend
// that exposes tables over a PostgREST-style HTTP interface.
//
// Forms live in the inspection_forms table, one row per form. Section trees and
// settings are stored as opaque JSON columns; the remaining attributes map to
// snake_case columns (see Row).
//
// Requests carry the project key in both the apikey and Authorization headers
// and are paced by a token-bucket limiter.
package rest
