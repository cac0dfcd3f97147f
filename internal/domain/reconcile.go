package domain

// minInferredBaseDepth is the base depth, in inches, at which a resort with
// unknown status is assumed to be operating.
const minInferredBaseDepth = 6.0

// Reconcile resolves contradictions between a scraped operational flag and
// the structural open-count signals. Scrapers frequently misreport closure
// from stale or ambiguous page text; actual open trail/lift counts are
// treated as ground truth and always win.
//
// Precedence, first match wins:
//  1. trails_open > 0 forces operational, overriding any scraped flag.
//  2. lifts_open > 0 forces operational.
//  3. An explicit true is kept.
//  4. Unknown status is inferred from base depth, then recent snowfall.
//  5. An uncontradicted false stays false.
//
// The input is not mutated; callers get a shallow copy with only the
// operational flag rewritten.
func Reconcile(rec ConditionRecord) ConditionRecord {
	out := rec

	switch {
	case intOr(rec.TrailsOpen, 0) > 0:
		out.Operational = Bool(true)
	case intOr(rec.LiftsOpen, 0) > 0:
		out.Operational = Bool(true)
	case rec.Operational != nil && *rec.Operational:
		// already open
	case rec.Operational == nil:
		if floatOr(rec.BaseDepth, 0) >= minInferredBaseDepth {
			out.Operational = Bool(true)
		} else if floatOr(rec.Snowfall24h, 0) > 0 || floatOr(rec.Snowfall12h, 0) > 0 {
			out.Operational = Bool(true)
		}
	}

	return out
}
