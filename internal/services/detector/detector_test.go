package detector_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
	"github.com/bajij/competitive-scrape/internal/services/detector"
	"github.com/bajij/competitive-scrape/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func priorCapture(text string, items []models.PricedItem) *models.Capture {
	return &models.Capture{
		ID:             "prior-capture",
		PageID:         "page-1",
		CapturedAt:     time.Now().Add(-time.Hour),
		NormalizedText: &text,
		Pricing:        items,
	}
}

func TestDetector_Run(t *testing.T) {
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	page := models.Page{ID: "page-1", CompetitorID: "comp-1", URL: "https://example.com/pricing", Type: models.PageTypePricing}

	testCases := []struct {
		name          string
		mode          detector.ExtractionMode
		setupMocks    func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore)
		expectError   bool
		expectFetch   bool // expected error matches ErrFetchFailed
		assertsResult func(t *testing.T, result *detector.Result)
	}{
		{
			name: "First run: capture recorded, price change with nil old capture",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, repository.ErrNotFound).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return("<p>Pro Plan 84,90 €</p>", nil).Once()
				mRepo.On("RecordDetection", ctx, mock.AnythingOfType("*models.Capture"), mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.True(t, result.Changed)
				require.Len(t, result.Changes, 1)
				change := result.Changes[0]
				assert.Equal(t, models.ChangeKindPrice, change.Kind)
				assert.Equal(t, "pricing", change.Field)
				assert.Nil(t, change.OldCaptureID)
				assert.Equal(t, result.Capture.ID, change.NewCaptureID)
				assert.Empty(t, change.OldValue)
				assert.Contains(t, change.NewValue, "84.9")
			},
		},
		{
			name: "Text changed beyond threshold emits a TEXT change",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				old := strings.Repeat("a", 100)
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture(old, nil), nil).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return(strings.Repeat("b", 121), nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.True(t, result.Changed)
				require.Len(t, result.Changes, 1)
				change := result.Changes[0]
				assert.Equal(t, models.ChangeKindText, change.Kind)
				assert.Equal(t, "content", change.Field)
				assert.Equal(t, "Content length changed from 100 to 121 characters", change.Summary)
				require.NotNil(t, change.OldCaptureID)
				assert.Equal(t, "prior-capture", *change.OldCaptureID)
			},
		},
		{
			name: "Length delta at exactly the threshold stays quiet",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				old := strings.Repeat("a", 100)
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture(old, nil), nil).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return(strings.Repeat("b", 120), nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				assert.False(t, result.Changed)
				assert.Empty(t, result.Changes)
				assert.Nil(t, result.Change)
				assert.NotNil(t, result.Capture)
			},
		},
		{
			name: "Page going blank always counts, whatever the delta",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture("short", nil), nil).Once()
				// Normalizes to an empty string.
				mFetcher.On("Fetch", ctx, page.URL).Return("<script>gone()</script>", nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.True(t, result.Changed)
				require.Len(t, result.Changes, 1)
				assert.Equal(t, models.ChangeKindText, result.Changes[0].Kind)
				assert.Empty(t, result.Changes[0].NewValue)
			},
		},
		{
			name: "Reordered pricing lists count as changed",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				text := "Basic 10 €\nPro 20 €"
				reordered := []models.PricedItem{
					{Label: "Pro 20 €", Amount: 20, Currency: "EUR", RawLine: "Pro 20 €"},
					{Label: "Basic 10 €", Amount: 10, Currency: "EUR", RawLine: "Basic 10 €"},
				}
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture(text, reordered), nil).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return(text, nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.True(t, result.Changed)
				require.Len(t, result.Changes, 1)
				assert.Equal(t, models.ChangeKindPrice, result.Changes[0].Kind)
			},
		},
		{
			name: "Both text and pricing changed: TEXT is the representative",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				old := "An old description that says quite a lot of things about plans"
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture(old, nil), nil).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return("New Plan 49,00 €", nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.Len(t, result.Changes, 2)
				assert.Equal(t, models.ChangeKindText, result.Change.Kind)
				assert.Equal(t, models.ChangeKindPrice, result.Changes[1].Kind)
			},
		},
		{
			name: "Nothing changed: capture still recorded, no change rows",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				text := "Stable page content"
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(priorCapture(text, nil), nil).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return(text, nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.MatchedBy(func(changes []*models.Change) bool {
					return len(changes) == 0
				})).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				assert.False(t, result.Changed)
				assert.NotNil(t, result.Capture)
			},
		},
		{
			name: "Structured mode extracts from raw markup",
			mode: detector.ModeStructured,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				html := `<div data-product-id="sku-1" data-name="Pro" data-price="49.00"></div>`
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, repository.ErrNotFound).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return(html, nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(nil).Once()
			},
			assertsResult: func(t *testing.T, result *detector.Result) {
				require.NotNil(t, result.Capture)
				require.Len(t, result.Capture.Pricing, 1)
				assert.Equal(t, "sku-1", result.Capture.Pricing[0].SKU)
				assert.Equal(t, "Pro", result.Capture.Pricing[0].Label)
			},
		},
		{
			name: "Error: fetch failure aborts with nothing persisted",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, repository.ErrNotFound).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return("", errors.New("connection refused")).Once()
			},
			expectError: true,
			expectFetch: true,
		},
		{
			name: "Error: prior capture lookup failure",
			mode: detector.ModeLoose,
			setupMocks: func(_ *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, assert.AnError).Once()
			},
			expectError: true,
		},
		{
			name: "Error: persistence failure",
			mode: detector.ModeLoose,
			setupMocks: func(mFetcher *mocks.Fetcher, mRepo *mocks.DetectionStore) {
				mRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, repository.ErrNotFound).Once()
				mFetcher.On("Fetch", ctx, page.URL).Return("content", nil).Once()
				mRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockFetcher := new(mocks.Fetcher)
			mockRepo := new(mocks.DetectionStore)
			tc.setupMocks(mockFetcher, mockRepo)

			d := detector.New(logger, mockFetcher, mockRepo)

			result, err := d.Run(ctx, page, tc.mode)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectFetch {
					require.ErrorIs(t, err, detector.ErrFetchFailed)
					mockRepo.AssertNotCalled(t, "RecordDetection", mock.Anything, mock.Anything, mock.Anything)
				}
			} else {
				require.NoError(t, err)
				tc.assertsResult(t, result)
			}

			mockFetcher.AssertExpectations(t)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDetector_CapturePopulatesAllFields(t *testing.T) {
	ctx := t.Context()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	page := models.Page{ID: "page-9", URL: "https://example.com"}

	mockFetcher := new(mocks.Fetcher)
	mockRepo := new(mocks.DetectionStore)

	const html = "<p>Plan 9,99 €</p>"
	mockRepo.On("FindLatestCapture", ctx, page.ID).Return(nil, repository.ErrNotFound).Once()
	mockFetcher.On("Fetch", ctx, page.URL).Return(html, nil).Once()

	var persisted *models.Capture
	mockRepo.On("RecordDetection", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*models.Capture)
		}).Return(nil).Once()

	result, err := detector.New(logger, mockFetcher, mockRepo).Run(ctx, page, detector.ModeLoose)
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, result.Capture, persisted)
	assert.Equal(t, page.ID, persisted.PageID)
	require.NotNil(t, persisted.RawHTML)
	assert.Equal(t, html, *persisted.RawHTML)
	require.NotNil(t, persisted.NormalizedText)
	assert.Equal(t, "Plan 9,99 €", *persisted.NormalizedText)
	require.Len(t, persisted.Pricing, 1)
	assert.InDelta(t, 9.99, persisted.Pricing[0].Amount, 1e-9)
	assert.False(t, persisted.CapturedAt.IsZero())
}
