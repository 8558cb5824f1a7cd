package reporter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bajij/competitive-scrape/internal/models"
)

// parseSynthesis normalizes the external capability's output. The
// envelope must be a JSON object; inside it, anything malformed is
// coerced rather than rejected: a non-array highlights value becomes an
// empty list and non-string item fields default to empty strings.
func parseSynthesis(raw string) (string, []models.Highlight, error) {
	cleaned := stripCodeFence(raw)

	var envelope map[string]any
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return "", nil, fmt.Errorf("failed to decode synthesis output: %w", err)
	}

	summary, _ := envelope["summary"].(string)

	return summary, coerceHighlights(envelope["highlights"]), nil
}

func coerceHighlights(value any) []models.Highlight {
	highlights := []models.Highlight{}

	list, ok := value.([]any)
	if !ok {
		return highlights
	}

	for _, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		highlights = append(highlights, models.Highlight{
			Title:      stringField(fields, "title"),
			Detail:     stringField(fields, "detail"),
			Competitor: stringField(fields, "competitor"),
			ChangeType: stringField(fields, "change_type"),
			Impact:     strings.ToUpper(stringField(fields, "impact")),
		})
	}

	return highlights
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// stripCodeFence tolerates models that wrap their JSON in a markdown
// fence despite being asked for raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
