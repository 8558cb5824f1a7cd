package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
)

const (
	// maxPromptChanges caps how many changes feed one synthesis prompt.
	// Later changes stay persisted but are excluded from synthesis.
	maxPromptChanges = 200

	// pricingPreviewLength bounds the serialized pricing payloads
	// appended to PRICE-kind lines.
	pricingPreviewLength = 400
)

const systemInstruction = `You are a competitive intelligence analyst. You receive a chronological list of detected changes on competitor web pages. Respond with a strict JSON object of the form {"summary": string, "highlights": [{"title": string, "detail": string, "competitor": string, "change_type": string, "impact": "HIGH"|"MEDIUM"|"LOW"}]}. The summary is a concise overview of the period; each highlight is one notable competitive move. Output JSON only, no surrounding prose.`

// BuildPrompt renders the change list into the line format consumed by
// the synthesis backend, one change per line, time-ascending, capped at
// maxPromptChanges entries.
func BuildPrompt(changes []models.ProjectChange) string {
	if len(changes) > maxPromptChanges {
		changes = changes[:maxPromptChanges]
	}

	var b strings.Builder
	for i, change := range changes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderChangeLine(change))
	}

	return b.String()
}

func renderChangeLine(change models.ProjectChange) string {
	line := fmt.Sprintf(`[%s] Competitor=%q | PageType=%q | ChangeType=%q | Field=%q | URL=%q | Summary=%q`,
		change.DetectedAt.UTC().Format(time.RFC3339),
		change.CompetitorName,
		change.PageType,
		change.Kind,
		change.Field,
		change.PageURL,
		change.Summary,
	)

	if change.Kind == models.ChangeKindPrice {
		line += fmt.Sprintf(` | OldPricing=%q | NewPricing=%q`,
			truncatePreview(change.OldValue), truncatePreview(change.NewValue))
	}

	return line
}

func truncatePreview(s string) string {
	if runes := []rune(s); len(runes) > pricingPreviewLength {
		return string(runes[:pricingPreviewLength])
	}
	return s
}
