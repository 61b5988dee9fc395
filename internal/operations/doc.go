// Package operations sequences the pipeline stages into the two user-facing
// operations.
//
//	Load      ingest -> clean
//	Generate  regional_efficiency -> contractor_ranking -> annual_trends -> summary -> export
//
// Steps run one after another and a failure stops the operation. Each run
// carries a RunState with one StepState per step, a run id that doubles as
// the logging trace id, and an OpenTelemetry span per run and per step.
// Step durations, row counts and errors are recorded as metrics when
// telemetry providers are supplied.
//
// Example usage:
//
//	runner, err := operations.NewRunner(operations.ConfigFrom(cfg), paths, providers, logger)
//	loaded, err := runner.Load(ctx, "")
//	generated, err := runner.Generate(ctx, loaded.Data)
package operations
