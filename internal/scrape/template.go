package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/powderline/snowday/internal/domain"
)

// defaultTemplateSelectors suit the common hand-built report template:
// sectioned metrics with data attributes for snowfall periods.
var defaultTemplateSelectors = Selectors{
	"snowfall":             "section#snowfall .metric",
	"snowfall_period_attr": "data-period",
	"low_temp":             "section#temperatures .low-temp",
	"high_temp":            "section#temperatures .high-temp",
	"wind":                 "section#wind",
	"base":                 "section#base",
	"surface":              "section#base .surface",
	"lift_counts":          "section#lifts .counts",
	"lift_open":            ".open",
	"lift_total":           ".total",
	"trail_counts":         "section#trails .counts",
	"trail_open":           ".open",
	"trail_total":          ".total",
}

var templateSelectorKeys = []string{
	"snowfall", "low_temp", "high_temp", "wind", "base", "surface",
	"lift_counts", "lift_open", "lift_total",
	"trail_counts", "trail_open", "trail_total",
}

// TemplateExtractor serves resorts whose pages follow the sectioned report
// template. All structure is selector-driven, so resorts sharing the
// template need only selector overrides in config.
type TemplateExtractor struct{}

func (TemplateExtractor) Extract(html string, selectors Selectors) (domain.RawMetrics, error) {
	sel := merged(defaultTemplateSelectors, selectors)
	matchers, err := compileSelectors(sel, templateSelectorKeys...)
	if err != nil {
		return nil, err
	}
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	snowfall := map[string]*float64{}
	periodAttr := sel["snowfall_period_attr"]
	doc.FindMatcher(matchers["snowfall"]).Each(func(_ int, s *goquery.Selection) {
		period := s.AttrOr(periodAttr, "")
		value := ExtractNumeric(s.Text())
		if period != "" && value != nil {
			snowfall[period] = value
		}
	})

	windSpeed, windDir := ParseWind(textOf(doc, matchers["wind"]))

	liftsOpen, liftsTotal := countsFrom(doc, matchers, "lift_counts", "lift_open", "lift_total")
	trailsOpen, trailsTotal := countsFrom(doc, matchers, "trail_counts", "trail_open", "trail_total")

	return domain.RawMetrics{
		"wind_speed_mph":       windSpeed,
		"wind_direction":       windDir,
		"temp_low_f":           numericOf(doc, matchers["low_temp"]),
		"temp_high_f":          numericOf(doc, matchers["high_temp"]),
		"snowfall_last_12h_in": snowfall["12h"],
		"snowfall_last_24h_in": snowfall["24h"],
		"snowfall_last_7d_in":  snowfall["7d"],
		"base_depth_in":        numericOf(doc, matchers["base"]),
		"precip_type":          surfaceOrEmpty(textOf(doc, matchers["surface"])),
		"lifts_open":           liftsOpen,
		"lifts_total":          liftsTotal,
		"trails_open":          trailsOpen,
		"trails_total":         trailsTotal,
		"is_operational":       DetectStatus(doc.Text()),
	}, nil
}

func surfaceOrEmpty(text string) any {
	if text == "" {
		return nil
	}
	if cond := SurfaceCondition(text); cond != "" {
		return cond
	}
	return text
}
