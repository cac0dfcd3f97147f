// Package domain models ski-resort snow conditions and the scoring rules
// applied to them.
//
// # Data Source
//
// Condition data comes from resort snow-report pages: some hand-built HTML,
// some served by a third-party aggregator. Extractors (internal/scrape)
// reduce each page to a RawMetrics mapping; the Normalizer turns that into a
// canonical ConditionRecord in imperial units.
//
// # Units
//
// All records are unit-normalized at creation:
//
//	wind:         mph  (kph sources converted × 0.621371)
//	depths/snow:  in   (cm sources converted × 0.393701)
//	temperatures: °F   (°C sources converted × 9/5 + 32)
//
// No field ever mixes units; conversion happens exactly once, in the
// normalizer, and only for values that are present.
//
// # Operational status
//
// The scraped open/closed flag is unreliable. [Reconcile] treats structural
// signals (actual open trail and lift counts) as ground truth, and they
// always override the scraped flag. Status is tri-state throughout: a nil
// Operational pointer means unknown, which is scored differently from a
// confirmed closure.
//
// # Scoring
//
// [Score] folds the current record and the immediately preceding one into a
// bounded number plus an ordered rationale. The rationale is a first-class
// output, not a debug log: each factor appends one human-readable note, and
// the semicolon-joined result is surfaced verbatim by the API and the
// summary generator. A confirmed-closed resort short-circuits to score 0.
package domain
