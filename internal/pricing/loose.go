package pricing

import (
	"regexp"
	"strings"

	"github.com/bajij/competitive-scrape/internal/models"
)

// looseRe recognizes "<currency><number>" and "<number><currency>" with
// €, $, EUR, EURO or USD as the currency token, case-insensitive. A bare
// number with no currency marker is not a price.
var looseRe = regexp.MustCompile(
	`(?i)(?:(€|\$|EURO|EUR|USD)\s*(\d+(?:[.,]\d+)?)|(\d+(?:[.,]\d+)?)\s*(€|\$|EURO|EUR|USD))`)

// ExtractLoose scans normalized text line by line and yields one item
// per line that contains a recognizable price pattern. Lines without a
// match are skipped silently; extraction stops after MaxItems items.
func ExtractLoose(text string) []models.PricedItem {
	var items []models.PricedItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		match := looseRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		currency, number := match[1], match[2]
		if currency == "" {
			currency, number = match[4], match[3]
		}

		amount, ok := ParseAmount(number)
		if !ok {
			continue
		}

		items = append(items, models.PricedItem{
			Label:    truncateLabel(line),
			Amount:   amount,
			Currency: NormalizeCurrency(currency),
			RawLine:  line,
		})

		if len(items) >= MaxItems {
			break
		}
	}

	return items
}
