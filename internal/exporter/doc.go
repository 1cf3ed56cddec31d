// Package exporter writes the pipeline's output tables as CSV files.
//
// Every table is written with a UTF-8 BOM so spreadsheet tools pick up the
// encoding, mirroring the utf-8-sig convention of the historical exports.
//
// CSVWriter: core CSV writing with headers, streaming and BOM support.
//
// TableExporter: renders the KPI, enhanced-track, high-potential and
// market-trend tables plus the data journal into their fixed column
// layouts.
package exporter
