package repository

import (
	"context"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
)

// Interface is the full storage surface the HTTP layer is wired to.
// Services declare their own narrow subsets of it.
type Interface interface {
	CreateProject(ctx context.Context, project *models.Project) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateCompetitor(ctx context.Context, competitor *models.Competitor) error
	ListCompetitorsByProject(ctx context.Context, projectID string) ([]models.Competitor, error)
	GetCompetitor(ctx context.Context, id string) (*models.Competitor, error)
	DeleteCompetitor(ctx context.Context, id string) error

	CreatePage(ctx context.Context, page *models.Page) error
	ListPagesByCompetitor(ctx context.Context, competitorID string) ([]models.Page, error)
	GetPage(ctx context.Context, id string) (*models.Page, error)
	DeletePage(ctx context.Context, id string) error

	CreateCapture(ctx context.Context, capture *models.Capture) error
	FindLatestCapture(ctx context.Context, pageID string) (*models.Capture, error)
	ListCapturesByPage(ctx context.Context, pageID string) ([]models.Capture, error)

	CreateChange(ctx context.Context, change *models.Change) error
	RecordDetection(ctx context.Context, capture *models.Capture, changes []*models.Change) error
	ListChangesByPage(ctx context.Context, pageID string) ([]models.Change, error)
	ListChangesInWindow(ctx context.Context, projectID string, start, end time.Time) ([]models.ProjectChange, error)

	CreateReport(ctx context.Context, report *models.Report) error
	ListReportsByProject(ctx context.Context, projectID string) ([]models.Report, error)
}
