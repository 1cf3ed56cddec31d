// Package kpi aggregates scored tracks into market-level key performance
// indicators: per-genre market share, success rate, growth momentum,
// Shannon diversity and a blended market potential score, plus yearly
// market trends and the high-potential track shortlist.
//
// Aggregation is a pure function of its input slice and configuration, so
// repeated runs over identical inputs produce identical tables.
package kpi
