package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
)

// CreateCompetitor inserts a new competitor row.
func (r *Repository) CreateCompetitor(ctx context.Context, competitor *models.Competitor) error {
	const opn = "repository.sqlite.CreateCompetitor"

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO competitors (id, project_id, name, website_url, created_at) VALUES (?, ?, ?, ?, ?)",
		competitor.ID, competitor.ProjectID, competitor.Name, competitor.WebsiteURL, formatTime(competitor.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ListCompetitorsByProject returns a project's competitors, newest first.
func (r *Repository) ListCompetitorsByProject(ctx context.Context, projectID string) ([]models.Competitor, error) {
	const opn = "repository.sqlite.ListCompetitorsByProject"

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, project_id, name, website_url, created_at FROM competitors WHERE project_id = ? ORDER BY created_at DESC",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var (
			c       models.Competitor
			created string
		)
		if err = rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.WebsiteURL, &created); err != nil {
			return nil, fmt.Errorf("%s: failed to scan competitor: %w", opn, err)
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		competitors = append(competitors, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return competitors, nil
}

// GetCompetitor returns a single competitor or repository.ErrNotFound.
func (r *Repository) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	const opn = "repository.sqlite.GetCompetitor"

	var (
		c       models.Competitor
		created string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, project_id, name, website_url, created_at FROM competitors WHERE id = ?", id).
		Scan(&c.ID, &c.ProjectID, &c.Name, &c.WebsiteURL, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	if c.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &c, nil
}

// DeleteCompetitor removes a competitor and cascades its pages.
func (r *Repository) DeleteCompetitor(ctx context.Context, id string) error {
	const opn = "repository.sqlite.DeleteCompetitor"

	res, err := r.db.ExecContext(ctx, "DELETE FROM competitors WHERE id = ?", id)
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
