package pricing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bajij/competitive-scrape/internal/models"
)

// ExtractStructured locates repeating product blocks in raw markup and
// extracts one priced item per block. A block is any element carrying a
// data-product-id attribute; the explicit data-price attribute is
// preferred over parsed display text. Blocks missing both a name and a
// usable price are dropped whole rather than partially recorded.
func ExtractStructured(rawHTML string) []models.PricedItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var items []models.PricedItem
	doc.Find("[data-product-id]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		sku, _ := sel.Attr("data-product-id")

		name := strings.TrimSpace(sel.AttrOr("data-name", ""))
		if name == "" {
			name = strings.TrimSpace(sel.Find(".product-name, [itemprop=name]").First().Text())
		}

		priceText, hasPrice := sel.Attr("data-price")
		if !hasPrice {
			priceText = sel.Find(".price, [itemprop=price]").First().Text()
			hasPrice = strings.TrimSpace(priceText) != ""
		}

		amount, amountOK := 0.0, false
		if hasPrice {
			amount, amountOK = ParseAmount(priceText)
		}
		if hasPrice && !amountOK {
			// A price was advertised but does not parse; drop the block.
			return true
		}
		if name == "" && !amountOK {
			return true
		}

		items = append(items, models.PricedItem{
			SKU:          strings.TrimSpace(sku),
			Label:        truncateLabel(name),
			Amount:       amount,
			Currency:     DefaultCurrency,
			Availability: availability(sel),
		})

		return len(items) < MaxItems
	})

	return items
}

func availability(sel *goquery.Selection) string {
	if v, ok := sel.Attr("data-availability"); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(sel.Find(".availability").First().Text())
}
