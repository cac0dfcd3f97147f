package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// numericRe matches the first signed decimal in a fragment,
	// e.g. `Base Depth: 32"` -> 32, "-4° overnight" -> -4.
	numericRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	// windDirFirstRe matches "NW, 5-12 mph" and "W/NW, 17-30 mph".
	windDirFirstRe = regexp.MustCompile(`(?i)([NSEW/]{1,4}),?\s*(\d+)(?:\s*-\s*(\d+))?\s*mph`)
	// windDirLastRe matches "5-12 mph NW".
	windDirLastRe = regexp.MustCompile(`(?i)(\d+)(?:\s*-\s*(\d+))?\s*mph\s*([NSEW]{1,3})`)
	// windBareRe matches "5-12 mph" with no direction.
	windBareRe = regexp.MustCompile(`(?i)(\d+)(?:\s*-\s*(\d+))?\s*mph`)

	// tempLowRe / tempHighRe match explicit labels: "LOW 22", "High: -4".
	tempLowRe  = regexp.MustCompile(`(?i)LOW\s*:?\s*(-?\d+)`)
	tempHighRe = regexp.MustCompile(`(?i)HIGH\s*:?\s*(-?\d+)`)
	// tempDegreeRe matches degree-marked numbers: "22°", "32ºF".
	tempDegreeRe = regexp.MustCompile(`(-?\d+)\s*[°ºF]`)

	// statusRe matches an explicit "status: open" / "Status Closed" phrase.
	statusRe = regexp.MustCompile(`status\s*:?\s*(open|closed)`)
)

// closurePhrases are page fragments that imply the resort is not operating
// when no explicit status phrase is found.
var closurePhrases = []string{
	"projected opening",
	"resort closed",
	"closed for the season",
	"temporarily closed",
	"season opening",
}

// surfaceConditions are recognized snow-surface descriptions, most specific
// first ("Packed Powder" must beat "Powder").
var surfaceConditions = []string{
	"Machine Groomed",
	"Packed Powder",
	"Loose Granular",
	"Frozen Granular",
	"Spring Conditions",
	"Powder",
	"Hardpack",
	"Variable",
	"Ice",
}

// ExtractNumeric pulls the first signed decimal out of a text fragment.
// Returns nil when the fragment contains no number; never errors.
func ExtractNumeric(text string) *float64 {
	m := numericRe.FindString(text)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseWind recognizes "DIR, LOW-HIGH mph", "LOW-HIGH mph DIR", and
// "LOW-HIGH mph" wind descriptions. A low-high range reports the midpoint as
// the speed. Direction is "" when the text carries none.
func ParseWind(text string) (speed *float64, direction string) {
	if m := windDirFirstRe.FindStringSubmatch(text); m != nil {
		return rangeMidpoint(m[2], m[3]), strings.ReplaceAll(strings.ToUpper(m[1]), "/", "")
	}
	if m := windDirLastRe.FindStringSubmatch(text); m != nil {
		return rangeMidpoint(m[1], m[2]), strings.ToUpper(m[3])
	}
	if m := windBareRe.FindStringSubmatch(text); m != nil {
		return rangeMidpoint(m[1], m[2]), ""
	}
	return nil, ""
}

func rangeMidpoint(lowStr, highStr string) *float64 {
	low, err := strconv.ParseFloat(lowStr, 64)
	if err != nil {
		return nil
	}
	high := low
	if highStr != "" {
		if h, err := strconv.ParseFloat(highStr, 64); err == nil {
			high = h
		}
	}
	mid := (low + high) / 2
	return &mid
}

// ParseTemperature recognizes explicit "LOW"/"HIGH" labels first, then falls
// back to degree-marked numbers, taking the min and max of whatever it finds.
// A single degree-marked value with no labels is reported as the high.
func ParseTemperature(text string) (low, high *float64) {
	if m := tempLowRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		low = &v
	}
	if m := tempHighRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		high = &v
	}
	if low != nil && high != nil {
		return low, high
	}

	var values []float64
	for _, m := range tempDegreeRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			values = append(values, v)
		}
	}
	switch {
	case len(values) >= 2:
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if low == nil {
			low = &lo
		}
		if high == nil {
			high = &hi
		}
	case len(values) == 1 && high == nil:
		high = &values[0]
	}
	return low, high
}

// ParseOpenCounts extracts open/total counts for the given labels, trying
// "LABEL n of/m" first, then "n of/m LABEL", then a bare "LABEL n" (total
// absent). Labels are matched case-insensitively in the order given.
func ParseOpenCounts(text string, labels ...string) (open, total *int) {
	for _, label := range labels {
		re := regexp.MustCompile(fmt.Sprintf(`(?i)%s\s*:?\s*(\d+)\s*(?:of|/)\s*(\d+)`, regexp.QuoteMeta(label)))
		if m := re.FindStringSubmatch(text); m != nil {
			return atoiPtr(m[1]), atoiPtr(m[2])
		}
	}
	for _, label := range labels {
		re := regexp.MustCompile(fmt.Sprintf(`(?i)(\d+)\s*(?:of|/)\s*(\d+)\s*%s`, regexp.QuoteMeta(label)))
		if m := re.FindStringSubmatch(text); m != nil {
			return atoiPtr(m[1]), atoiPtr(m[2])
		}
	}
	for _, label := range labels {
		re := regexp.MustCompile(fmt.Sprintf(`(?i)%s\s*:?\s*(\d+)`, regexp.QuoteMeta(label)))
		if m := re.FindStringSubmatch(text); m != nil {
			return atoiPtr(m[1]), nil
		}
	}
	return nil, nil
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// DetectStatus infers the operational flag from free text: an explicit
// "status: open/closed" phrase wins, then known closure phrases. Returns nil
// (unknown) when neither matches.
func DetectStatus(text string) *bool {
	lowered := strings.ToLower(text)
	if m := statusRe.FindStringSubmatch(lowered); m != nil {
		open := m[1] == "open"
		return &open
	}
	for _, phrase := range closurePhrases {
		if strings.Contains(lowered, phrase) {
			closed := false
			return &closed
		}
	}
	return nil
}

// SurfaceCondition scans page text for a recognized snow-surface
// description, returning "" when none is present.
func SurfaceCondition(text string) string {
	lowered := strings.ToLower(text)
	for _, cond := range surfaceConditions {
		if strings.Contains(lowered, strings.ToLower(cond)) {
			return cond
		}
	}
	return ""
}
