// Package mocks holds hand-written testify mocks shared by service and
// handler tests.
package mocks

import (
	"context"
	"time"

	"github.com/bajij/competitive-scrape/internal/models"
	"github.com/bajij/competitive-scrape/internal/services/detector"
	"github.com/stretchr/testify/mock"
)

// Fetcher mocks detector.Fetcher.
type Fetcher struct {
	mock.Mock
}

func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// DetectionStore mocks detector.Storage.
type DetectionStore struct {
	mock.Mock
}

func (m *DetectionStore) FindLatestCapture(ctx context.Context, pageID string) (*models.Capture, error) {
	args := m.Called(ctx, pageID)
	var capture *models.Capture
	if v := args.Get(0); v != nil {
		capture = v.(*models.Capture)
	}
	return capture, args.Error(1)
}

func (m *DetectionStore) RecordDetection(ctx context.Context, capture *models.Capture, changes []*models.Change) error {
	args := m.Called(ctx, capture, changes)
	return args.Error(0)
}

// ReportStore mocks reporter.Storage.
type ReportStore struct {
	mock.Mock
}

func (m *ReportStore) ListChangesInWindow(ctx context.Context, projectID string, start, end time.Time) ([]models.ProjectChange, error) {
	args := m.Called(ctx, projectID, start, end)
	var changes []models.ProjectChange
	if v := args.Get(0); v != nil {
		changes = v.([]models.ProjectChange)
	}
	return changes, args.Error(1)
}

func (m *ReportStore) CreateReport(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// Synthesizer mocks reporter.Synthesizer.
type Synthesizer struct {
	mock.Mock
}

func (m *Synthesizer) Summarize(ctx context.Context, instruction, prompt string) (string, error) {
	args := m.Called(ctx, instruction, prompt)
	return args.String(0), args.Error(1)
}

// CaptureRunner mocks server.CaptureRunner.
type CaptureRunner struct {
	mock.Mock
}

func (m *CaptureRunner) Run(ctx context.Context, page models.Page, mode detector.ExtractionMode) (*detector.Result, error) {
	args := m.Called(ctx, page, mode)
	var result *detector.Result
	if v := args.Get(0); v != nil {
		result = v.(*detector.Result)
	}
	return result, args.Error(1)
}

// Notifier mocks server.ChangeNotifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyChanges(page models.Page, changes []*models.Change) {
	m.Called(page, changes)
}

// ReportGenerator mocks server.ReportGenerator.
type ReportGenerator struct {
	mock.Mock
}

func (m *ReportGenerator) Generate(ctx context.Context, projectID string, start, end *time.Time) (*models.Report, error) {
	args := m.Called(ctx, projectID, start, end)
	var report *models.Report
	if v := args.Get(0); v != nil {
		report = v.(*models.Report)
	}
	return report, args.Error(1)
}
