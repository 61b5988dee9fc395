// Package cleaning validates and enriches an ingested contracts dataset.
//
// Cleaning is a pipeline of four pure steps:
//
//	ProjectValidity  project id + both costs as floats, invalid rows removed
//	RejoinValid      inner join back to the full rows on (project_id, occurrence)
//	FilterYears      keep the configured years
//	Derive           attach cost_savings and completion_delay_days
//
// Rows whose budget or cost is not numeric (for example "N/A") are removed by
// the rejoin. Every step returns a new dataset, and running Clean on its own
// output returns an equal dataset.
package cleaning
