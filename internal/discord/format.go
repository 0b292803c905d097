package discord

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// formatNumber renders n with thousands separators ("10,000").
func formatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// formatPercent renders a stored discount percent ("25%").
func formatPercent(p float64) string {
	return printer.Sprintf("%.0f%%", p)
}

// itemDisplayName turns an item id into a title ("rare_loot_box" -> "Rare Loot Box").
func itemDisplayName(itemID string) string {
	return titler.String(strings.ReplaceAll(itemID, titleCaseSplitter, " "))
}

// oneIn converts a probability into the "1 in N" denominator. Zero means
// the odds are unknown.
func oneIn(odds float64) int64 {
	if odds <= 0 || odds > 1 {
		return 0
	}
	return int64(math.Round(1 / odds))
}
