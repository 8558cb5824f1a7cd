// Package reporter synthesizes a project's detected changes over a time
// window into a report, delegating the summary to an external
// text-generation capability when one is configured.
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/google/uuid"
)

// noChangesSummary is the fixed report summary when the window holds no
// changes. No synthesis call is made in that case.
const noChangesSummary = "No changes detected in the reporting period."

// Storage is the slice of the repository the reporter needs.
type Storage interface {
	ListChangesInWindow(ctx context.Context, projectID string, start, end time.Time) ([]models.ProjectChange, error)
	CreateReport(ctx context.Context, report *models.Report) error
}

// Synthesizer turns an instruction plus a rendered change list into a
// strict-JSON response. Implementations may fail or time out; the
// reporter degrades to a report without AI fields either way.
type Synthesizer interface {
	Summarize(ctx context.Context, instruction, prompt string) (string, error)
}

// Reporter builds and persists reports.
type Reporter struct {
	log   *slog.Logger
	repo  Storage
	synth Synthesizer // nil means no credential configured
}

// New creates a Reporter. Pass a nil synthesizer when no credential is
// configured; reports are then created with null AI fields.
func New(log *slog.Logger, repo Storage, synth Synthesizer) *Reporter {
	return &Reporter{log: log, repo: repo, synth: synth}
}

// Generate resolves the window, collects the project's changes inside
// it, synthesizes a summary when possible and persists the report.
// Report creation never fails because synthesis failed.
func (r *Reporter) Generate(ctx context.Context, projectID string, start, end *time.Time) (*models.Report, error) {
	const opn = "reporter.Generate"
	log := r.log.With("op", opn, "project_id", projectID)

	resolvedStart, resolvedEnd := ResolveWindow(start, end, time.Now().UTC())

	changes, err := r.repo.ListChangesInWindow(ctx, projectID, resolvedStart, resolvedEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list changes: %w", opn, err)
	}
	log.InfoContext(ctx, "Collected changes for report window",
		"changes", len(changes), "start", resolvedStart, "end", resolvedEnd)

	report := &models.Report{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		PeriodStart: resolvedStart,
		PeriodEnd:   resolvedEnd,
		GeneratedAt: time.Now().UTC(),
		Highlights:  []models.Highlight{},
	}

	switch {
	case len(changes) == 0:
		summary := noChangesSummary
		report.Summary = &summary
	case r.synth == nil:
		log.InfoContext(ctx, "Synthesis unavailable, creating report without AI fields")
	default:
		if summary, highlights, ok := r.synthesize(ctx, log, changes); ok {
			report.Summary = &summary
			report.Highlights = highlights
		}
	}

	if err = r.repo.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("%s: failed to persist report: %w", opn, err)
	}

	return report, nil
}

func (r *Reporter) synthesize(ctx context.Context, log *slog.Logger, changes []models.ProjectChange) (string, []models.Highlight, bool) {
	raw, err := r.synth.Summarize(ctx, systemInstruction, BuildPrompt(changes))
	if err != nil {
		log.WarnContext(ctx, "Synthesis call failed, creating report without AI fields", "error", err)
		return "", nil, false
	}

	summary, highlights, err := parseSynthesis(raw)
	if err != nil {
		log.WarnContext(ctx, "Synthesis output was not parseable, creating report without AI fields", "error", err)
		return "", nil, false
	}

	return summary, highlights, true
}
