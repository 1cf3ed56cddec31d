// Package pipeline orchestrates the chart-data run: input validation,
// loading, cleaning, merging, scoring, KPI aggregation and export. Steps
// execute strictly in sequence because each consumes the previous step's
// output; a failing step aborts the run and export only happens after the
// KPI table has passed validation, so output files from a prior successful
// run are never partially overwritten.
package pipeline
