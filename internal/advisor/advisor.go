// Package advisor turns ranked resort scores into short natural-language
// recommendations, using a text generator when one is available and a
// rule-based summary otherwise.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ScoredResort carries a resort's score plus the condition details the
// generator prompt and rule-based fallback draw highlights from.
type ScoredResort struct {
	Name      string
	Score     float64
	Rationale string

	Snowfall24h *float64
	Snowfall12h *float64
	BaseDepth   *float64
	WindSpeed   *float64
	TempMin     *float64
	TempMax     *float64
	PrecipType  string
	Powder      bool
	Icy         bool
	Operational *bool
	LiftsOpen   *int
	LiftsTotal  *int
	TrailsOpen  *int
	TrailsTotal *int
}

// Generator produces free-form text from a prompt. Implemented by the
// Ollama adapter; nil disables generation and the advisor runs rules only.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor summarizes scored resorts. Generator failures are logged and
// absorbed; the caller always gets a usable summary.
type Advisor struct {
	gen    Generator
	logger *slog.Logger
}

// New creates an Advisor. gen may be nil.
func New(gen Generator, logger *slog.Logger) *Advisor {
	return &Advisor{gen: gen, logger: logger}
}

// SummarizeTop returns a short, one-line-per-resort summary of the topN
// highest-scoring resorts.
func (a *Advisor) SummarizeTop(ctx context.Context, resorts []ScoredResort, topN int) string {
	if len(resorts) == 0 {
		return "No resort scores are available to summarize yet."
	}
	if out := a.generate(ctx, summaryPrompt(resorts, topN)); out != "" {
		return out
	}
	return ruleSummary(resorts, topN)
}

// DailyRecommendation returns a single-line pick of the best resort with up
// to two backups.
func (a *Advisor) DailyRecommendation(ctx context.Context, resorts []ScoredResort) string {
	if len(resorts) == 0 {
		return "No resort data is available to recommend a destination today."
	}
	if out := a.generate(ctx, recommendationPrompt(resorts)); out != "" {
		return out
	}
	return ruleRecommendation(resorts)
}

func (a *Advisor) generate(ctx context.Context, prompt string) string {
	if a.gen == nil {
		return ""
	}
	out, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("text generation failed, using rule-based summary", "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

func ruleSummary(resorts []ScoredResort, topN int) string {
	picks := topByScore(resorts, topN)
	lines := make([]string, 0, len(picks))
	for _, r := range picks {
		lines = append(lines, fmt.Sprintf("%s (%.0f): %s. %s", r.Name, r.Score, highlights(r, "decent conditions"), r.Rationale))
	}
	return strings.Join(lines, "\n")
}

func ruleRecommendation(resorts []ScoredResort) string {
	ranked := topByScore(resorts, len(resorts))
	best := ranked[0]

	line := fmt.Sprintf("%s (%.0f): %s. %s", best.Name, best.Score, highlights(best, "solid conditions"), best.Rationale)

	switch {
	case len(ranked) >= 3:
		line += fmt.Sprintf(" Backups: %s, %s.", ranked[1].Name, ranked[2].Name)
	case len(ranked) == 2:
		line += fmt.Sprintf(" Backup: %s.", ranked[1].Name)
	}
	return line
}

// highlights picks up to two of the strongest selling points for a resort.
func highlights(r ScoredResort, fallback string) string {
	var picked []string
	if r.Powder {
		picked = append(picked, "powder")
	}
	if r.Snowfall24h != nil && *r.Snowfall24h > 0 {
		picked = append(picked, fmt.Sprintf("%.1f\" fresh", *r.Snowfall24h))
	}
	if r.WindSpeed != nil && *r.WindSpeed < 15 {
		picked = append(picked, "calm winds")
	}
	if r.TrailsOpen != nil && r.TrailsTotal != nil && *r.TrailsTotal > 0 {
		if float64(*r.TrailsOpen)/float64(*r.TrailsTotal)*100 > 70 {
			picked = append(picked, "most trails open")
		}
	}
	if len(picked) == 0 {
		return fallback
	}
	if len(picked) > 2 {
		picked = picked[:2]
	}
	return strings.Join(picked, " + ")
}

func topByScore(resorts []ScoredResort, n int) []ScoredResort {
	ranked := make([]ScoredResort, len(resorts))
	copy(ranked, resorts)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

func summaryPrompt(resorts []ScoredResort, topN int) string {
	return fmt.Sprintf(`You're a ski expert giving quick, concise recommendations like a Google review.
Keep it short and punchy. One line per resort max. Focus on what matters: powder,
fresh snow, good conditions.

Format: Resort Name (score): key highlights. Brief why it's good.
Use just the number for the score, not "/100".

Resort conditions:
%s

List the top %d resorts, one per line. Be concise, like you're texting a friend.
No paragraphs, just quick hits. Don't include "/100" after scores.`, formatResorts(resorts), topN)
}

func recommendationPrompt(resorts []ScoredResort) string {
	return fmt.Sprintf(`Give ONE quick recommendation like a skier's review. Short and to the point.

Format: Resort Name (score): key highlights. Why it's good. Optional backup mention.
Use just the number for the score, not "/100".

Resort conditions:
%s

Pick the best resort and write ONE concise line. Mention powder, fresh snow, or
good conditions. If there's a solid backup, add it at the end. Keep it under 2
sentences. Don't include "/100" after scores.`, formatResorts(resorts))
}

func formatResorts(resorts []ScoredResort) string {
	if len(resorts) == 0 {
		return "No resort data available."
	}
	ranked := topByScore(resorts, len(resorts))

	var b strings.Builder
	for i, r := range ranked {
		if i > 0 {
			b.WriteByte('\n')
		}
		var details []string
		if r.Snowfall24h != nil {
			details = append(details, fmt.Sprintf("24hr snow: %.1fin", *r.Snowfall24h))
		}
		if r.Snowfall12h != nil {
			details = append(details, fmt.Sprintf("12hr snow: %.1fin", *r.Snowfall12h))
		}
		if r.BaseDepth != nil {
			details = append(details, fmt.Sprintf("base: %.0fin", *r.BaseDepth))
		}
		if r.WindSpeed != nil {
			details = append(details, fmt.Sprintf("wind: %.0fmph", *r.WindSpeed))
		}
		if r.TempMin != nil && r.TempMax != nil {
			details = append(details, fmt.Sprintf("temps: %.0f°F to %.0f°F", *r.TempMin, *r.TempMax))
		}
		if r.PrecipType != "" {
			details = append(details, "precip: "+r.PrecipType)
		}
		if r.TrailsOpen != nil {
			if r.TrailsTotal != nil && *r.TrailsTotal > 0 {
				details = append(details, fmt.Sprintf("trails: %d/%d", *r.TrailsOpen, *r.TrailsTotal))
			} else {
				details = append(details, fmt.Sprintf("trails open: %d", *r.TrailsOpen))
			}
		}
		if r.LiftsOpen != nil {
			if r.LiftsTotal != nil && *r.LiftsTotal > 0 {
				details = append(details, fmt.Sprintf("lifts: %d/%d", *r.LiftsOpen, *r.LiftsTotal))
			} else {
				details = append(details, fmt.Sprintf("lifts spinning: %d", *r.LiftsOpen))
			}
		}
		if r.Powder {
			details = append(details, "POWDER CONDITIONS")
		}
		if r.Icy {
			details = append(details, "ICY CONDITIONS")
		}
		switch {
		case r.Operational == nil:
			details = append(details, "STATUS: UNKNOWN")
		case *r.Operational:
			details = append(details, "STATUS: OPEN")
		default:
			details = append(details, "STATUS: CLOSED")
		}

		detail := "no detailed conditions"
		if len(details) > 0 {
			detail = strings.Join(details, ", ")
		}
		fmt.Fprintf(&b, "- %s: Score %.0f | %s", r.Name, r.Score, detail)
	}
	return b.String()
}
