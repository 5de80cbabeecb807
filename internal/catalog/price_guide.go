package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var wonAmountRgx = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+)\s*원`)

// ParsePriceGuide extracts the won amounts from a KOPIS price guide such as
// "R석 140,000원, S석 110,000원". Amounts are returned in the order they appear.
func ParsePriceGuide(guide string) []int {
	matches := wonAmountRgx.FindAllStringSubmatch(guide, -1)

	prices := make([]int, 0, len(matches))
	for _, m := range matches {
		amount, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || amount <= 0 {
			continue
		}

		prices = append(prices, amount)
	}

	return prices
}
