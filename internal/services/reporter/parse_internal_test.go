package reporter

import (
	"testing"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSynthesis(t *testing.T) {
	t.Run("well-formed payload", func(t *testing.T) {
		raw := `{"summary":"Busy week.","highlights":[{"title":"Price cut","detail":"Pro dropped 10%","competitor":"Acme","change_type":"PRICE","impact":"high"}]}`

		summary, highlights, err := parseSynthesis(raw)

		require.NoError(t, err)
		assert.Equal(t, "Busy week.", summary)
		require.Len(t, highlights, 1)
		assert.Equal(t, models.Highlight{
			Title:      "Price cut",
			Detail:     "Pro dropped 10%",
			Competitor: "Acme",
			ChangeType: "PRICE",
			Impact:     "HIGH",
		}, highlights[0])
	})

	t.Run("fenced payload is tolerated", func(t *testing.T) {
		raw := "```json\n{\"summary\":\"ok\",\"highlights\":[]}\n```"

		summary, highlights, err := parseSynthesis(raw)

		require.NoError(t, err)
		assert.Equal(t, "ok", summary)
		assert.Empty(t, highlights)
	})

	t.Run("non-array highlights coerce to empty", func(t *testing.T) {
		_, highlights, err := parseSynthesis(`{"summary":"s","highlights":"not a list"}`)

		require.NoError(t, err)
		assert.Equal(t, []models.Highlight{}, highlights)
	})

	t.Run("missing highlights coerce to empty", func(t *testing.T) {
		_, highlights, err := parseSynthesis(`{"summary":"s"}`)

		require.NoError(t, err)
		assert.Empty(t, highlights)
	})

	t.Run("non-object items are dropped, non-string fields default empty", func(t *testing.T) {
		raw := `{"summary":"s","highlights":[42,{"title":7,"detail":null,"impact":"medium"}]}`

		_, highlights, err := parseSynthesis(raw)

		require.NoError(t, err)
		require.Len(t, highlights, 1)
		assert.Equal(t, models.Highlight{Impact: "MEDIUM"}, highlights[0])
	})

	t.Run("non-string summary defaults empty", func(t *testing.T) {
		summary, _, err := parseSynthesis(`{"summary":123,"highlights":[]}`)

		require.NoError(t, err)
		assert.Empty(t, summary)
	})

	t.Run("unparseable output errors", func(t *testing.T) {
		_, _, err := parseSynthesis("this is not JSON")

		require.Error(t, err)
	})
}
