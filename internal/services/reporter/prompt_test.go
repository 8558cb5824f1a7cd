package reporter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/services/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectChange(kind models.ChangeKind, detectedAt time.Time) models.ProjectChange {
	return models.ProjectChange{
		Change: models.Change{
			Kind:       kind,
			Field:      "content",
			Summary:    "Content length changed from 10 to 50 characters",
			DetectedAt: detectedAt,
		},
		CompetitorName: "Acme",
		PageType:       models.PageTypePricing,
		PageURL:        "https://acme.example/pricing",
	}
}

func TestBuildPrompt_LineFormat(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	got := reporter.BuildPrompt([]models.ProjectChange{projectChange(models.ChangeKindText, at)})

	assert.Equal(t,
		`[2026-01-02T15:04:05Z] Competitor="Acme" | PageType="PRICING" | ChangeType="TEXT" | Field="content" | URL="https://acme.example/pricing" | Summary="Content length changed from 10 to 50 characters"`,
		got)
}

func TestBuildPrompt_PriceChangesCarryPricingPreviews(t *testing.T) {
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	change := projectChange(models.ChangeKindPrice, at)
	change.Field = "pricing"
	change.Summary = "Pricing information changed"
	change.OldValue = `[{"label":"Pro","amount":49}]`
	change.NewValue = strings.Repeat("x", 500)

	got := reporter.BuildPrompt([]models.ProjectChange{change})

	assert.Contains(t, got, `OldPricing="[{\"label\":\"Pro\",\"amount\":49}]"`)
	// New payload preview is bounded at 400 characters.
	assert.Contains(t, got, `NewPricing="`+strings.Repeat("x", 400)+`"`)
	assert.NotContains(t, got, strings.Repeat("x", 401))
}

func TestBuildPrompt_TextChangesCarryNoPricingSuffix(t *testing.T) {
	got := reporter.BuildPrompt([]models.ProjectChange{projectChange(models.ChangeKindText, time.Now())})

	assert.NotContains(t, got, "OldPricing")
	assert.NotContains(t, got, "NewPricing")
}

func TestBuildPrompt_CapsAtTwoHundredChanges(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var changes []models.ProjectChange
	for i := 0; i < 250; i++ {
		changes = append(changes, projectChange(models.ChangeKindText, base.Add(time.Duration(i)*time.Minute)))
	}

	got := reporter.BuildPrompt(changes)

	require.NotEmpty(t, got)
	assert.Equal(t, 200, len(strings.Split(got, "\n")))
	// The cap keeps the earliest entries.
	assert.Contains(t, got, "[2026-01-01T00:00:00Z]")
	assert.NotContains(t, got, base.Add(200*time.Minute).Format(time.RFC3339))
}

func TestBuildPrompt_EmptyChanges(t *testing.T) {
	assert.Empty(t, reporter.BuildPrompt(nil))
}
