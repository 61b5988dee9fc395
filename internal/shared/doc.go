// Package shared holds code used across packages that belongs to no single
// pipeline stage.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and builders for source CSV fixtures.
package shared
