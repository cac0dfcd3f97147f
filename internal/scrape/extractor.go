// Package scrape turns resort snow-report HTML into raw metrics mappings.
//
// Each source-format family implements [Extractor]; resorts sharing a page
// template reuse one extractor with per-resort selector overrides, while
// idiosyncratic markup gets its own implementation. Extractors degrade
// gracefully: a missing field yields an absent raw metric, never an error.
// Only malformed selector configuration is a hard error.
package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/powderline/snowday/internal/domain"
)

// Selectors maps logical field names to CSS selector strings (or, for keys
// ending in "_attr", attribute names). Selector configuration is data so
// resorts sharing a template differ only in config.
type Selectors map[string]string

// Extractor produces a raw metrics mapping from snow-report HTML.
type Extractor interface {
	Extract(html string, selectors Selectors) (domain.RawMetrics, error)
}

// Source format names accepted in resort configuration.
const (
	FormatTemplate   = "template"
	FormatTables     = "tables"
	FormatAggregator = "aggregator"
)

// ForFormat returns the extractor implementing the named source format.
func ForFormat(format string) (Extractor, error) {
	switch format {
	case FormatTemplate:
		return TemplateExtractor{}, nil
	case FormatTables:
		return TableExtractor{}, nil
	case FormatAggregator:
		return AggregatorExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown source format %q", format)
	}
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// merged overlays per-resort selector overrides on an extractor's defaults.
func merged(defaults, overrides Selectors) Selectors {
	out := make(Selectors, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// compileSelectors validates and compiles every CSS-selector-valued key.
// goquery's Find panics on invalid selectors, so compilation happens up
// front and a bad selector surfaces as a configuration error.
func compileSelectors(sel Selectors, keys ...string) (map[string]cascadia.Selector, error) {
	compiled := make(map[string]cascadia.Selector, len(keys))
	for _, key := range keys {
		expr, ok := sel[key]
		if !ok || expr == "" {
			continue
		}
		m, err := cascadia.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("selector %s=%q: %w", key, expr, err)
		}
		compiled[key] = m
	}
	return compiled, nil
}

// ValidateSelectors compiles the CSS-selector-valued entries of a selector
// set, reporting the first malformed one. Attribute-name keys ("*_attr")
// are not CSS selectors and are skipped.
func ValidateSelectors(sel Selectors) error {
	for key, expr := range sel {
		if strings.HasSuffix(key, "_attr") || expr == "" {
			continue
		}
		if _, err := cascadia.Compile(expr); err != nil {
			return fmt.Errorf("selector %s=%q: %w", key, expr, err)
		}
	}
	return nil
}

func textOf(doc *goquery.Document, m cascadia.Selector) string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(doc.FindMatcher(m).First().Text())
}

func numericOf(doc *goquery.Document, m cascadia.Selector) *float64 {
	return ExtractNumeric(textOf(doc, m))
}

// countsFrom reads open/total integers from sub-elements of a container,
// e.g. <div class="counts"><span class="open">5</span><span class="total">12</span></div>.
func countsFrom(doc *goquery.Document, matchers map[string]cascadia.Selector, container, openKey, totalKey string) (open, total *int) {
	c, ok := matchers[container]
	if !ok {
		return nil, nil
	}
	scope := doc.FindMatcher(c).First()
	if scope.Length() == 0 {
		return nil, nil
	}
	if m, ok := matchers[openKey]; ok {
		if v := ExtractNumeric(scope.FindMatcher(m).First().Text()); v != nil {
			n := int(*v)
			open = &n
		}
	}
	if m, ok := matchers[totalKey]; ok {
		if v := ExtractNumeric(scope.FindMatcher(m).First().Text()); v != nil {
			n := int(*v)
			total = &n
		}
	}
	return open, total
}
