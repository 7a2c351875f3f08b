// Package renderer builds markdown reports from matching results.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/capgains"
)

const dateFormat = "2006-01-02"

// SummaryMarkdown renders the per-year capital gains summary and the
// remaining open lots.
func SummaryMarkdown(pairs []capgains.MatchedPair, remaining []capgains.Order, maxYear int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report up to %d\n\n", maxYear)

	fmt.Fprint(&b, "## Gains per Year\n\n")
	fmt.Fprintln(&b, "| Year | Pairs | Short-Term | Long-Term | Total |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")

	var shortTotal, longTotal capgains.Money
	byYear := map[int]*yearGains{}
	var years []int
	for _, p := range pairs {
		y := p.SaleTime.Year()
		g, ok := byYear[y]
		if !ok {
			g = &yearGains{}
			byYear[y] = g
			years = append(years, y)
		}
		g.pairs++
		g.short = g.short.Add(p.ShortTermGain)
		g.long = g.long.Add(p.LongTermGain)
		shortTotal = shortTotal.Add(p.ShortTermGain)
		longTotal = longTotal.Add(p.LongTermGain)
	}
	// pairs are emitted chronologically, so years already ascend.
	for _, y := range years {
		g := byYear[y]
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n",
			y, g.pairs, g.short.SignedString(), g.long.SignedString(), g.short.Add(g.long).SignedString())
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** | **%s** | **%s** |\n",
		len(pairs), shortTotal.SignedString(), longTotal.SignedString(), shortTotal.Add(longTotal).SignedString())

	fmt.Fprint(&b, "\n## Remaining Orders\n\n")
	if len(remaining) == 0 {
		fmt.Fprintln(&b, "No orders carried forward.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Id | Date | Side | Quantity | Price |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, o := range remaining {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			o.ID, o.Time.Format(dateFormat), o.Side, o.Quantity, o.Price)
	}

	return b.String()
}

type yearGains struct {
	pairs       int
	short, long capgains.Money
}

// MatchesMarkdown renders the matched pairs, one row per pair in emission
// order.
func MatchesMarkdown(pairs []capgains.MatchedPair) string {
	var b strings.Builder

	fmt.Fprint(&b, "## Matched Pairs\n\n")
	fmt.Fprintln(&b, "| Sale | Sold On | Buy | Bought On | Quantity | Proceeds | Cost | Short-Term | Long-Term | Held | Policy |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|---:|---:|:---|")

	for _, p := range pairs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %dd | %s |\n",
			p.SaleID, p.SaleTime.Format(dateFormat),
			p.BuyID, p.BuyTime.Format(dateFormat),
			p.Quantity,
			p.NetProceeds, p.CostBasis,
			p.ShortTermGain.SignedString(), p.LongTermGain.SignedString(),
			p.HoldingDays, p.Policy)
	}

	return b.String()
}
