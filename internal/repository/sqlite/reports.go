package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bajij/competitive-scrape/internal/models"
)

// CreateReport inserts a report row. Highlights are stored as a JSON
// array, empty when synthesis was skipped or failed.
func (r *Repository) CreateReport(ctx context.Context, report *models.Report) error {
	const opn = "repository.sqlite.CreateReport"

	highlights := report.Highlights
	if highlights == nil {
		highlights = []models.Highlight{}
	}
	highlightsJSON, err := json.Marshal(highlights)
	if err != nil {
		return fmt.Errorf("%s: failed to encode highlights: %w", opn, err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO reports (id, project_id, period_start, period_end, generated_at, summary, highlights_json, artifact_ref) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		report.ID, report.ProjectID, formatTime(report.PeriodStart), formatTime(report.PeriodEnd),
		formatTime(report.GeneratedAt), nullableString(report.Summary), string(highlightsJSON),
		nullableString(report.ArtifactRef))
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ListReportsByProject returns a project's reports, newest first.
func (r *Repository) ListReportsByProject(ctx context.Context, projectID string) ([]models.Report, error) {
	const opn = "repository.sqlite.ListReportsByProject"

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, project_id, period_start, period_end, generated_at, summary, highlights_json, artifact_ref FROM reports WHERE project_id = ? ORDER BY generated_at DESC",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var (
			report     models.Report
			start      string
			end        string
			generated  string
			summary    sql.NullString
			highlights string
			artifact   sql.NullString
		)
		err = rows.Scan(&report.ID, &report.ProjectID, &start, &end, &generated,
			&summary, &highlights, &artifact)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan report: %w", opn, err)
		}

		if report.PeriodStart, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		if report.PeriodEnd, err = parseTime(end); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		if report.GeneratedAt, err = parseTime(generated); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}

		if summary.Valid {
			report.Summary = &summary.String
		}
		if artifact.Valid {
			report.ArtifactRef = &artifact.String
		}

		report.Highlights = []models.Highlight{}
		if highlights != "" {
			if err = json.Unmarshal([]byte(highlights), &report.Highlights); err != nil {
				return nil, fmt.Errorf("%s: failed to decode highlights: %w", opn, err)
			}
		}

		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return reports, nil
}
