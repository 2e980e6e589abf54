// Package report turns calculator results into text for people.
package report

import (
	"fmt"
	"strings"

	"github.com/xtding233/raisehell/internal/cascade"
)

// Row is one displayed line of a distribution.
type Row struct {
	Outcome     int     `json:"outcome"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
}

// Rows keeps the outcomes that can happen. Labels count the Hellraiser that
// started the cascade, so outcome n reads as n+1 Hellraisers.
func Rows(d cascade.Distribution) []Row {
	var rows []Row
	for _, i := range d.Support() {
		rows = append(rows, Row{
			Outcome:     i,
			Label:       fmt.Sprintf("%d Hellraisers", i+1),
			Probability: d[i],
			Percent:     Percent(d[i]),
		})
	}
	return rows
}

// Percent formats a probability with two decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// DistributionMarkdown renders the parameters and the non-zero rows.
func DistributionMarkdown(triggers uint32, pool cascade.Pool, d cascade.Distribution) string {
	var b strings.Builder
	b.WriteString("# Hellraiser Probabilities\n\n")
	fmt.Fprintf(&b, "- **Initial triggers:** %d\n", triggers)
	fmt.Fprintf(&b, "- **Graveyard size:** %d\n", pool.Size)
	fmt.Fprintf(&b, "- **Seasons:** %d\n", pool.Primary)
	fmt.Fprintf(&b, "- **Beacons:** %d\n", pool.Toggle)
	fmt.Fprintf(&b, "- **Flameshapers:** %d\n\n", pool.Secondary)
	b.WriteString("| Result | Probability |\n|---|---:|\n")
	for _, r := range Rows(d) {
		fmt.Fprintf(&b, "| %s | %s |\n", r.Label, r.Percent)
	}
	fmt.Fprintf(&b, "\nExpected extra Hellraisers: **%.2f**\n", d.Mean())
	return b.String()
}

// ChanceMarkdown renders a sequential hit probability.
func ChanceMarkdown(hits, poolSize, triggers uint32, p float64) string {
	var b strings.Builder
	b.WriteString("# Chances of Hit\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", Percent(p))
	fmt.Fprintf(&b, "| Graveyard size | Hits | Triggers |\n|---:|---:|---:|\n| %d | %d | %d |\n", poolSize, hits, triggers)
	return b.String()
}

// SimulationText is the plain verdict of one sampled trigger.
func SimulationText(hit bool) string {
	if hit {
		return "You hit! Hell was raised!"
	}
	return "You whiffed. No hits this time."
}
