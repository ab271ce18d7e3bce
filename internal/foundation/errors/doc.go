// Package errors provides foundational, type-safe error primitives used across sitegraph.
//
// Errors are classified by category (config, snapshot, routes, redirects, ...),
// severity and retry strategy, and are constructed through a fluent builder:
//
//	err := errors.SnapshotError("missing top-level key").
//		WithContext("key", "allWpPage").
//		Build()
//
// The CLI adapter maps categories to process exit codes; the HTTP adapter maps
// them to status codes for the daemon's admin endpoints.
package errors
