package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
)

const changeColumns = "id, page_id, old_capture_id, new_capture_id, kind, field, old_value, new_value, summary, detected_at"

// CreateChange inserts a change row.
func (r *Repository) CreateChange(ctx context.Context, change *models.Change) error {
	const opn = "repository.sqlite.CreateChange"

	_, err := r.db.ExecContext(ctx, insertChangeQuery, changeArgs(change)...)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

const insertChangeQuery = "INSERT INTO changes (id, page_id, old_capture_id, new_capture_id, kind, field, old_value, new_value, summary, detected_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

func changeArgs(change *models.Change) []any {
	return []any{
		change.ID, change.PageID, nullableString(change.OldCaptureID), change.NewCaptureID,
		string(change.Kind), change.Field, change.OldValue, change.NewValue,
		change.Summary, formatTime(change.DetectedAt),
	}
}

// RecordDetection persists the outcome of one detection run atomically:
// the new capture and all change rows derived from it either land
// together or not at all.
func (r *Repository) RecordDetection(ctx context.Context, capture *models.Capture, changes []*models.Change) error {
	const opn = "repository.sqlite.RecordDetection"

	pricingJSON, err := marshalPricing(capture.Pricing)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit returns sql.ErrTxDone, nothing to act on

	_, err = tx.ExecContext(ctx,
		"INSERT INTO captures (id, page_id, captured_at, raw_html, normalized_text, pricing_json) VALUES (?, ?, ?, ?, ?, ?)",
		capture.ID, capture.PageID, formatTime(capture.CapturedAt),
		nullableString(capture.RawHTML), nullableString(capture.NormalizedText), pricingJSON)
	if err != nil {
		return fmt.Errorf("%s: failed to insert capture: %w", opn, err)
	}

	for _, change := range changes {
		if _, err = tx.ExecContext(ctx, insertChangeQuery, changeArgs(change)...); err != nil {
			return fmt.Errorf("%s: failed to insert %s change: %w", opn, change.Kind, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}

// ListChangesByPage returns a page's changes, newest first.
func (r *Repository) ListChangesByPage(ctx context.Context, pageID string) ([]models.Change, error) {
	const opn = "repository.sqlite.ListChangesByPage"

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+changeColumns+" FROM changes WHERE page_id = ? ORDER BY detected_at DESC",
		pageID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var changes []models.Change
	for rows.Next() {
		change, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan change: %w", opn, err)
		}
		changes = append(changes, *change)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return changes, nil
}

// ListChangesInWindow returns a project's changes inside the inclusive
// [start, end] window joined with page and competitor identity, ordered
// ascending by detection time. This is the reporting query.
func (r *Repository) ListChangesInWindow(ctx context.Context, projectID string, start, end time.Time) ([]models.ProjectChange, error) {
	const opn = "repository.sqlite.ListChangesInWindow"

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.page_id, c.old_capture_id, c.new_capture_id, c.kind, c.field,
		       c.old_value, c.new_value, c.summary, c.detected_at,
		       comp.name, p.page_type, p.url
		FROM changes c
		JOIN pages p ON p.id = c.page_id
		JOIN competitors comp ON comp.id = p.competitor_id
		WHERE comp.project_id = ? AND c.detected_at >= ? AND c.detected_at <= ?
		ORDER BY c.detected_at ASC`,
		projectID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var changes []models.ProjectChange
	for rows.Next() {
		var (
			pc         models.ProjectChange
			oldCapture sql.NullString
			pageType   string
			detected   string
		)
		err = rows.Scan(&pc.ID, &pc.PageID, &oldCapture, &pc.NewCaptureID, &pc.Kind, &pc.Field,
			&pc.OldValue, &pc.NewValue, &pc.Summary, &detected,
			&pc.CompetitorName, &pageType, &pc.PageURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan change: %w", opn, err)
		}
		if oldCapture.Valid {
			pc.OldCaptureID = &oldCapture.String
		}
		pc.PageType = models.ParsePageType(pageType)
		if pc.DetectedAt, err = parseTime(detected); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		changes = append(changes, pc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return changes, nil
}

func scanChange(row rowScanner) (*models.Change, error) {
	var (
		change     models.Change
		oldCapture sql.NullString
		kind       string
		detected   string
	)
	err := row.Scan(&change.ID, &change.PageID, &oldCapture, &change.NewCaptureID, &kind,
		&change.Field, &change.OldValue, &change.NewValue, &change.Summary, &detected)
	if err != nil {
		return nil, err
	}

	if oldCapture.Valid {
		change.OldCaptureID = &oldCapture.String
	}
	change.Kind = models.ChangeKind(kind)

	if change.DetectedAt, err = parseTime(detected); err != nil {
		return nil, err
	}

	return &change, nil
}
