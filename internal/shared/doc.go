// Package shared provides common utilities and test helpers used across
// the b3data codebase. It serves as a central location for shared
// functionality that doesn't belong to any specific domain or
// architectural layer.
//
// # Structure
//
// - testutil: testing utilities, currently the buffered slog handler
// used to assert on the pipeline's notice channel
//
// # Usage Guidelines
//
// This package should only contain test utilities used by multiple
// packages and generic helpers with no domain-specific logic. It must
// not grow business logic or circular dependencies with other internal
// packages.
package shared
