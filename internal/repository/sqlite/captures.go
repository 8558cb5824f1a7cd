package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
)

const captureColumns = "id, page_id, captured_at, raw_html, normalized_text, pricing_json"

// CreateCapture inserts a capture row. The pricing list is stored as a
// JSON document; an empty list is stored as NULL.
func (r *Repository) CreateCapture(ctx context.Context, capture *models.Capture) error {
	const opn = "repository.sqlite.CreateCapture"

	pricingJSON, err := marshalPricing(capture.Pricing)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO captures (id, page_id, captured_at, raw_html, normalized_text, pricing_json) VALUES (?, ?, ?, ?, ?, ?)",
		capture.ID, capture.PageID, formatTime(capture.CapturedAt),
		nullableString(capture.RawHTML), nullableString(capture.NormalizedText), pricingJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// FindLatestCapture returns the most recent capture for a page, or
// repository.ErrNotFound if the page has never been captured.
func (r *Repository) FindLatestCapture(ctx context.Context, pageID string) (*models.Capture, error) {
	const opn = "repository.sqlite.FindLatestCapture"

	row := r.db.QueryRowContext(ctx,
		"SELECT "+captureColumns+" FROM captures WHERE page_id = ? ORDER BY captured_at DESC, id DESC LIMIT 1",
		pageID)

	capture, err := scanCapture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return capture, nil
}

// ListCapturesByPage returns all captures for a page, newest first.
func (r *Repository) ListCapturesByPage(ctx context.Context, pageID string) ([]models.Capture, error) {
	const opn = "repository.sqlite.ListCapturesByPage"

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+captureColumns+" FROM captures WHERE page_id = ? ORDER BY captured_at DESC, id DESC",
		pageID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var captures []models.Capture
	for rows.Next() {
		capture, err := scanCapture(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan capture: %w", opn, err)
		}
		captures = append(captures, *capture)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return captures, nil
}

func scanCapture(row rowScanner) (*models.Capture, error) {
	var (
		capture  models.Capture
		captured string
		rawHTML  sql.NullString
		text     sql.NullString
		pricing  sql.NullString
	)
	if err := row.Scan(&capture.ID, &capture.PageID, &captured, &rawHTML, &text, &pricing); err != nil {
		return nil, err
	}

	var err error
	if capture.CapturedAt, err = parseTime(captured); err != nil {
		return nil, err
	}

	if rawHTML.Valid {
		capture.RawHTML = &rawHTML.String
	}
	if text.Valid {
		capture.NormalizedText = &text.String
	}
	if pricing.Valid && pricing.String != "" {
		if err = json.Unmarshal([]byte(pricing.String), &capture.Pricing); err != nil {
			return nil, fmt.Errorf("failed to decode pricing payload: %w", err)
		}
	}

	return &capture, nil
}

func marshalPricing(items []models.PricedItem) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pricing payload: %w", err)
	}
	return string(data), nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
