package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
)

// CreateProject inserts a new project row.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project) error {
	const opn = "repository.sqlite.CreateProject"

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)",
		project.ID, project.Name, formatTime(project.CreatedAt))
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	return nil
}

// ListProjects returns all projects, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]models.Project, error) {
	const opn = "repository.sqlite.ListProjects"

	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var (
			p       models.Project
			created string
		)
		if err = rows.Scan(&p.ID, &p.Name, &created); err != nil {
			return nil, fmt.Errorf("%s: failed to scan project: %w", opn, err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("%s: %w", opn, err)
		}
		projects = append(projects, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return projects, nil
}

// GetProject returns a single project or repository.ErrNotFound.
func (r *Repository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	const opn = "repository.sqlite.GetProject"

	var (
		p       models.Project
		created string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM projects WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	return &p, nil
}

// DeleteProject removes a project; competitors, pages, captures, changes
// and reports underneath it are cascade-deleted.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	const opn = "repository.sqlite.DeleteProject"

	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
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
