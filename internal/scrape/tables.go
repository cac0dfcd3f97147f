package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/powderline/snowday/internal/domain"
)

// defaultTableSelectors suit the table-driven report pages: a conditions
// block plus temperature and lift/trail status tables.
var defaultTableSelectors = Selectors{
	"wind":              ".conditions .wind",
	"base":              ".conditions .base",
	"surface":           ".conditions .surface",
	"snowfall_12h":      ".conditions .snowfall .h12",
	"snowfall_24h":      ".conditions .snowfall .h24",
	"snowfall_7d":       ".conditions .snowfall .d7",
	"temps_table":       "table.temps tr",
	"lifts_table":       "table.lifts tr",
	"trails_table":      "table.trails tr",
	"lift_status_attr":  "data-status",
	"trail_status_attr": "data-status",
}

var tableSelectorKeys = []string{
	"wind", "base", "surface",
	"snowfall_12h", "snowfall_24h", "snowfall_7d",
	"temps_table", "lifts_table", "trails_table",
}

// TableExtractor serves resorts that publish their report as labeled tables:
// one row per lift/trail with a status attribute, and a low/high temperature
// table.
type TableExtractor struct{}

func (TableExtractor) Extract(html string, selectors Selectors) (domain.RawMetrics, error) {
	sel := merged(defaultTableSelectors, selectors)
	matchers, err := compileSelectors(sel, tableSelectorKeys...)
	if err != nil {
		return nil, err
	}
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	windSpeed, windDir := ParseWind(textOf(doc, matchers["wind"]))

	temps := map[string]*float64{}
	doc.FindMatcher(matchers["temps_table"]).Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("th").First().Text()))
		value := ExtractNumeric(row.Find("td").First().Text())
		if label != "" && value != nil {
			temps[label] = value
		}
	})

	liftsOpen, liftsTotal := statusCounts(doc, matchers, "lifts_table", sel["lift_status_attr"])
	trailsOpen, trailsTotal := statusCounts(doc, matchers, "trails_table", sel["trail_status_attr"])

	return domain.RawMetrics{
		"wind_speed_mph":       windSpeed,
		"wind_direction":       windDir,
		"temp_low_f":           temps["low"],
		"temp_high_f":          temps["high"],
		"snowfall_last_12h_in": numericOf(doc, matchers["snowfall_12h"]),
		"snowfall_last_24h_in": numericOf(doc, matchers["snowfall_24h"]),
		"snowfall_last_7d_in":  numericOf(doc, matchers["snowfall_7d"]),
		"base_depth_in":        numericOf(doc, matchers["base"]),
		"precip_type":          surfaceOrEmpty(textOf(doc, matchers["surface"])),
		"lifts_open":           liftsOpen,
		"lifts_total":          liftsTotal,
		"trails_open":          trailsOpen,
		"trails_total":         trailsTotal,
		"is_operational":       DetectStatus(doc.Text()),
	}, nil
}

// statusCounts tallies rows whose status attribute (or row text, when the
// attribute is absent) says "open". Total is nil when the table is missing
// entirely, so an absent table stays distinguishable from an empty one.
func statusCounts(doc *goquery.Document, matchers map[string]cascadia.Selector, tableKey, statusAttr string) (openCount, total *int) {
	m, ok := matchers[tableKey]
	if !ok {
		return nil, nil
	}
	rows := doc.FindMatcher(m)
	if rows.Length() == 0 {
		return nil, nil
	}
	open := 0
	n := 0
	rows.Each(func(_ int, row *goquery.Selection) {
		status := row.AttrOr(statusAttr, "")
		if status == "" {
			status = row.Text()
		}
		n++
		if strings.Contains(strings.ToLower(status), "open") {
			open++
		}
	})
	return &open, &n
}
