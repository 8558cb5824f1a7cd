package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/repository"
	"github.com/bajij/competitive-scrape/internal/services/detector"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaptureRunner executes one detection run for a page.
type CaptureRunner interface {
	Run(ctx context.Context, page models.Page, mode detector.ExtractionMode) (*detector.Result, error)
}

// ReportGenerator builds and persists one report for a project.
type ReportGenerator interface {
	Generate(ctx context.Context, projectID string, start, end *time.Time) (*models.Report, error)
}

// ChangeNotifier pushes a best-effort notification about emitted changes.
type ChangeNotifier interface {
	NotifyChanges(page models.Page, changes []*models.Change)
}

// Handler carries the handlers' dependencies.
type Handler struct {
	log      *slog.Logger
	repo     repository.Interface
	detector CaptureRunner
	reporter ReportGenerator
	notifier ChangeNotifier // nil when notifications are not configured
}

// NewHandler creates a Handler.
func NewHandler(log *slog.Logger, repo repository.Interface, det CaptureRunner, rep ReportGenerator, notif ChangeNotifier) *Handler {
	return &Handler{log: log, repo: repo, detector: det, reporter: rep, notifier: notif}
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{ID: uuid.NewString(), Name: req.Name, CreatedAt: time.Now().UTC()}
	if err := h.repo.CreateProject(c.Request.Context(), project); err != nil {
		h.serverError(c, "create_project", err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.repo.ListProjects(c.Request.Context())
	if err != nil {
		h.serverError(c, "list_projects", err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.repo.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupError(c, "get_project", err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.repo.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.lookupError(c, "delete_project", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateCompetitor(c *gin.Context) {
	var req createCompetitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	project, err := h.repo.GetProject(ctx, c.Param("id"))
	if err != nil {
		h.lookupError(c, "create_competitor", err)
		return
	}

	competitor := &models.Competitor{
		ID:         uuid.NewString(),
		ProjectID:  project.ID,
		Name:       req.Name,
		WebsiteURL: req.WebsiteURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err = h.repo.CreateCompetitor(ctx, competitor); err != nil {
		h.serverError(c, "create_competitor", err)
		return
	}

	c.JSON(http.StatusCreated, competitor)
}

func (h *Handler) ListCompetitors(c *gin.Context) {
	competitors, err := h.repo.ListCompetitorsByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, "list_competitors", err)
		return
	}
	if competitors == nil {
		competitors = []models.Competitor{}
	}

	c.JSON(http.StatusOK, competitors)
}

func (h *Handler) DeleteCompetitor(c *gin.Context) {
	if err := h.repo.DeleteCompetitor(c.Request.Context(), c.Param("id")); err != nil {
		h.lookupError(c, "delete_competitor", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CreatePage(c *gin.Context) {
	var req createPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	competitor, err := h.repo.GetCompetitor(ctx, c.Param("id"))
	if err != nil {
		h.lookupError(c, "create_page", err)
		return
	}

	page := &models.Page{
		ID:           uuid.NewString(),
		CompetitorID: competitor.ID,
		URL:          req.URL,
		Type:         models.ParsePageType(req.PageType),
		Note:         req.Note,
		CreatedAt:    time.Now().UTC(),
	}
	if err = h.repo.CreatePage(ctx, page); err != nil {
		h.serverError(c, "create_page", err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.repo.ListPagesByCompetitor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, "list_pages", err)
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}

	c.JSON(http.StatusOK, pages)
}

func (h *Handler) DeletePage(c *gin.Context) {
	if err := h.repo.DeletePage(c.Request.Context(), c.Param("id")); err != nil {
		h.lookupError(c, "delete_page", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CapturePage triggers one synchronous detection run for a page. The
// optional mode query parameter selects the pricing pass; the default
// is the loose pass over normalized text.
func (h *Handler) CapturePage(c *gin.Context) {
	mode := detector.ExtractionMode(c.DefaultQuery("mode", string(detector.ModeLoose)))
	if mode != detector.ModeLoose && mode != detector.ModeStructured {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be \"loose\" or \"structured\""})
		return
	}

	ctx := c.Request.Context()
	page, err := h.repo.GetPage(ctx, c.Param("id"))
	if err != nil {
		h.lookupError(c, "capture_page", err)
		return
	}

	result, err := h.detector.Run(ctx, *page, mode)
	if err != nil {
		if errors.Is(err, detector.ErrFetchFailed) {
			h.log.Error("Capture run failed to fetch page", "page_id", page.ID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, "capture_page", err)
		return
	}

	if h.notifier != nil {
		h.notifier.NotifyChanges(*page, result.Changes)
	}

	c.JSON(http.StatusOK, gin.H{
		"changed":    result.Changed,
		"change":     result.Change,
		"capture_id": result.Capture.ID,
	})
}

func (h *Handler) ListCaptures(c *gin.Context) {
	captures, err := h.repo.ListCapturesByPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, "list_captures", err)
		return
	}
	if captures == nil {
		captures = []models.Capture{}
	}

	c.JSON(http.StatusOK, captures)
}

func (h *Handler) ListChanges(c *gin.Context) {
	changes, err := h.repo.ListChangesByPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, "list_changes", err)
		return
	}
	if changes == nil {
		changes = []models.Change{}
	}

	c.JSON(http.StatusOK, changes)
}

func (h *Handler) CreateReport(c *gin.Context) {
	// An empty body is fine: both period bounds are optional and the
	// reporter resolves a concrete window itself.
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	project, err := h.repo.GetProject(ctx, c.Param("id"))
	if err != nil {
		h.lookupError(c, "create_report", err)
		return
	}

	report, err := h.reporter.Generate(ctx, project.ID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		h.serverError(c, "create_report", err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.repo.ListReportsByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, "list_reports", err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, reports)
}

func (h *Handler) lookupError(c *gin.Context, operation string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.serverError(c, operation, err)
}

func (h *Handler) serverError(c *gin.Context, operation string, err error) {
	h.log.Error("Database error", "operation", operation, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
