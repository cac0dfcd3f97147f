package scrape

import (
	"regexp"
	"strings"

	"github.com/powderline/snowday/internal/domain"
)

var (
	// aggBaseRe matches the aggregator's base banner: `Base 10" Variable Conditions`.
	// Straight, typographic, and double-prime inch marks all appear in the wild.
	aggBaseRe = regexp.MustCompile(`Base\s*(\d+(?:\.\d+)?)["\x{2033}\x{201d}]`)
	// aggSnow24Re matches the recent-snowfall row: `24h 3"`.
	aggSnow24Re = regexp.MustCompile(`24h\s*(\d+(?:\.\d+)?)["\x{2033}\x{201d}]`)
	// aggSurfaceRe pulls the one-or-two-word surface description between the
	// base figure and the word "Conditions".
	aggSurfaceRe = regexp.MustCompile(`Base\s*\d+(?:\.\d+)?["\x{2033}\x{201d}]\s*([A-Za-z]+(?:\s+[A-Za-z]+)?)\s*Conditions`)
)

var (
	liftLabels  = []string{"lifts open", "open lifts", "lifts running"}
	trailLabels = []string{"trails open", "open trails", "runs open", "open runs"}
)

// AggregatorExtractor parses the third-party aggregator's report pages.
// The aggregator renders everything as running text, so extraction works on
// the flattened page text rather than on selectors; per-resort selector
// overrides are accepted but unused.
type AggregatorExtractor struct{}

func (AggregatorExtractor) Extract(html string, _ Selectors) (domain.RawMetrics, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}
	text := normalizeSpace(doc.Text())

	var baseDepth, snow24 *float64
	if m := aggBaseRe.FindStringSubmatch(text); m != nil {
		baseDepth = ExtractNumeric(m[1])
	}
	if m := aggSnow24Re.FindStringSubmatch(text); m != nil {
		snow24 = ExtractNumeric(m[1])
	}

	precip := ""
	if m := aggSurfaceRe.FindStringSubmatch(text); m != nil {
		precip = strings.TrimSpace(m[1])
	} else {
		precip = SurfaceCondition(text)
	}

	liftsOpen, liftsTotal := ParseOpenCounts(text, liftLabels...)
	trailsOpen, trailsTotal := ParseOpenCounts(text, trailLabels...)

	// The aggregator rarely shows wind or temperatures; those stay absent
	// and the weather fallback fills them when coordinates are configured.
	return domain.RawMetrics{
		"snowfall_last_24h_in": snow24,
		"base_depth_in":        baseDepth,
		"precip_type":          precip,
		"lifts_open":           liftsOpen,
		"lifts_total":          liftsTotal,
		"trails_open":          trailsOpen,
		"trails_total":         trailsTotal,
		"is_operational":       DetectStatus(text),
	}, nil
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
