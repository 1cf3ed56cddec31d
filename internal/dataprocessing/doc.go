// Package dataprocessing contains the transformation stages that turn raw
// chart exports and track databases into the enriched table the KPI
// aggregation consumes: numeric cleaning, genre harmonization, track-ID
// extraction, chart preparation, and the left-join merge engine.
//
// The package follows a strict recovery policy: malformed values become
// missing, unusable rows are excluded and counted, and neither ever fails
// the batch. Only missing source files abort a run.
package dataprocessing
