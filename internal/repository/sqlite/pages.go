package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
)

// CreatePage inserts a new monitored page row.
func (r *Repository) CreatePage(ctx context.Context, page *models.Page) error {
	const opn = "repository.sqlite.CreatePage"

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pages (id, competitor_id, url, page_type, note, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		page.ID, page.CompetitorID, page.URL, string(page.Type), page.Note, formatTime(page.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ListPagesByCompetitor returns a competitor's monitored pages, newest first.
func (r *Repository) ListPagesByCompetitor(ctx context.Context, competitorID string) ([]models.Page, error) {
	const opn = "repository.sqlite.ListPagesByCompetitor"

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, competitor_id, url, page_type, note, created_at FROM pages WHERE competitor_id = ? ORDER BY created_at DESC",
		competitorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		pages = append(pages, *page)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return pages, nil
}

// GetPage returns a single monitored page or repository.ErrNotFound.
func (r *Repository) GetPage(ctx context.Context, id string) (*models.Page, error) {
	const opn = "repository.sqlite.GetPage"

	row := r.db.QueryRowContext(ctx,
		"SELECT id, competitor_id, url, page_type, note, created_at FROM pages WHERE id = ?", id)

	page, err := scanPage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return page, nil
}

// DeletePage removes a page and cascades its captures and changes.
func (r *Repository) DeletePage(ctx context.Context, id string) error {
	const opn = "repository.sqlite.DeletePage"

	res, err := r.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var (
		page     models.Page
		pageType string
		created  string
	)
	if err := row.Scan(&page.ID, &page.CompetitorID, &page.URL, &pageType, &page.Note, &created); err != nil {
		return nil, err
	}

	page.Type = models.ParsePageType(pageType)

	var err error
	if page.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	return &page, nil
}
