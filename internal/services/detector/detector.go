// Package detector runs one capture-and-compare cycle for a monitored
// page: fetch, normalize, extract pricing, compare against the prior
// capture, persist the capture plus any change rows.
package detector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/normalizer"
	"github.com/bajij/competitive-scrape/internal/pricing"
	"github.com/bajij/competitive-scrape/internal/repository"
	"github.com/google/uuid"
)

// ErrFetchFailed marks a run aborted because the page could not be
// retrieved. Nothing is persisted in that case.
var ErrFetchFailed = errors.New("fetch failed")

const (
	// textChangeThreshold is the minimum length delta for a text change
	// to count. Keeps whitespace drift and punctuation edits quiet; a
	// page going completely blank is always reported.
	textChangeThreshold = 20

	// maxValueLength bounds the old/new snapshots stored on a change.
	maxValueLength = 2000
)

// ExtractionMode selects which pricing pass feeds the new capture.
type ExtractionMode string

const (
	// ModeLoose runs the price-pattern heuristic over normalized text.
	// This is the default path.
	ModeLoose ExtractionMode = "loose"
	// ModeStructured parses product blocks out of the raw markup.
	ModeStructured ExtractionMode = "structured"
)

// Fetcher retrieves raw markup for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Storage is the slice of the repository the detector needs.
type Storage interface {
	FindLatestCapture(ctx context.Context, pageID string) (*models.Capture, error)
	RecordDetection(ctx context.Context, capture *models.Capture, changes []*models.Change) error
}

// Result is what one detection run reports back to its caller.
type Result struct {
	Changed bool
	// Change is the representative change when several were emitted:
	// first in the fixed priority order {TEXT, PRICE}.
	Change  *models.Change
	Changes []*models.Change
	Capture *models.Capture
}

// Detector orchestrates capture runs.
type Detector struct {
	log     *slog.Logger
	fetcher Fetcher
	repo    Storage
	locks   pageLocks
}

// New creates a Detector.
func New(log *slog.Logger, fetcher Fetcher, repo Storage) *Detector {
	return &Detector{log: log, fetcher: fetcher, repo: repo}
}

// Run executes one capture run for the page. A capture is recorded even
// when nothing changed, to anchor future comparisons. If the fetch
// fails the run aborts, nothing is persisted, and the returned error
// matches ErrFetchFailed.
func (d *Detector) Run(ctx context.Context, page models.Page, mode ExtractionMode) (*Result, error) {
	const opn = "detector.Run"
	log := d.log.With("op", opn, "page_id", page.ID)

	// Concurrent runs against the same page would otherwise both compare
	// against the same prior capture and emit duplicate changes.
	unlock := d.locks.lock(page.ID)
	defer unlock()

	prior, err := d.repo.FindLatestCapture(ctx, page.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: failed to load prior capture: %w", opn, err)
	}

	log.InfoContext(ctx, "Fetching page for detection run", "URL", page.URL)
	rawHTML, err := d.fetcher.Fetch(ctx, page.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opn, ErrFetchFailed, err)
	}

	text := normalizer.Normalize(rawHTML)

	var items []models.PricedItem
	if mode == ModeStructured {
		items = pricing.ExtractStructured(rawHTML)
	} else {
		items = pricing.ExtractLoose(text)
	}
	log.DebugContext(ctx, "Built new capture fields", "text_len", len(text), "priced_items", len(items))

	capture := &models.Capture{
		ID:             uuid.NewString(),
		PageID:         page.ID,
		CapturedAt:     time.Now().UTC(),
		RawHTML:        &rawHTML,
		NormalizedText: &text,
		Pricing:        items,
	}

	changes := detectChanges(prior, capture)

	if err = d.repo.RecordDetection(ctx, capture, changes); err != nil {
		return nil, fmt.Errorf("%s: failed to persist detection run: %w", opn, err)
	}

	log.InfoContext(ctx, "Detection run complete", "changes", len(changes))

	result := &Result{
		Changed: len(changes) > 0,
		Changes: changes,
		Capture: capture,
	}
	if len(changes) > 0 {
		result.Change = changes[0]
	}

	return result, nil
}

// detectChanges compares the new capture against the prior one and
// returns zero, one or two change records, TEXT first.
func detectChanges(prior, capture *models.Capture) []*models.Change {
	var changes []*models.Change

	var oldCaptureID *string
	if prior != nil {
		oldCaptureID = &prior.ID
	}

	if prior != nil {
		if change := compareText(prior, capture); change != nil {
			changes = append(changes, change)
		}
	}

	if change := comparePricing(prior, capture); change != nil {
		changes = append(changes, change)
	}

	for _, change := range changes {
		change.ID = uuid.NewString()
		change.PageID = capture.PageID
		change.OldCaptureID = oldCaptureID
		change.NewCaptureID = capture.ID
		change.DetectedAt = capture.CapturedAt
	}

	return changes
}

func compareText(prior, capture *models.Capture) *models.Change {
	oldText := textOrEmpty(prior)
	newText := textOrEmpty(capture)

	if oldText == newText {
		return nil
	}

	oldLen := utf8.RuneCountInString(oldText)
	newLen := utf8.RuneCountInString(newText)
	delta := newLen - oldLen
	if delta < 0 {
		delta = -delta
	}

	if delta <= textChangeThreshold && newText != "" {
		return nil
	}

	return &models.Change{
		Kind:     models.ChangeKindText,
		Field:    "content",
		OldValue: truncateValue(oldText),
		NewValue: truncateValue(newText),
		Summary:  fmt.Sprintf("Content length changed from %d to %d characters", oldLen, newLen),
	}
}

func comparePricing(prior, capture *models.Capture) *models.Change {
	var oldItems []models.PricedItem
	if prior != nil {
		oldItems = prior.Pricing
	}

	oldSerialized := serializePricing(oldItems)
	newSerialized := serializePricing(capture.Pricing)

	// Deep structural, order-sensitive equality via the serialized form.
	// Two equal-but-reordered lists count as changed.
	if oldSerialized == newSerialized {
		return nil
	}

	return &models.Change{
		Kind:     models.ChangeKindPrice,
		Field:    "pricing",
		OldValue: truncateValue(oldSerialized),
		NewValue: truncateValue(newSerialized),
		Summary:  "Pricing information changed",
	}
}

func textOrEmpty(capture *models.Capture) string {
	if capture == nil || capture.NormalizedText == nil {
		return ""
	}
	return *capture.NormalizedText
}

// serializePricing renders a pricing list for comparison and storage.
// Empty and nil lists both serialize to "" so that two capture runs
// with no pricing never count as a change.
func serializePricing(items []models.PricedItem) string {
	if len(items) == 0 {
		return ""
	}
	data, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(data)
}

func truncateValue(s string) string {
	if runes := []rune(s); len(runes) > maxValueLength {
		return string(runes[:maxValueLength])
	}
	return s
}
