// Package schema is the registry of the DPWH flood-control contract columns.
//
// It declares the 22 source headers, the canonical internal name each one is
// renamed to, and the type ingestion must be able to coerce it to. Derived
// and report column names live here as well so that every later stage refers
// to columns through this closed set of constants.
package schema
