package models

import "time"

// Impact levels used by report highlights.
const (
	ImpactHigh   = "HIGH"
	ImpactMedium = "MEDIUM"
	ImpactLow    = "LOW"
)

// Highlight is one structured fact inside a report, produced by the
// synthesis step. All fields are plain strings; anything the external
// capability omits or malforms is left empty.
type Highlight struct {
	Title      string `json:"title"`
	Detail     string `json:"detail"`
	Competitor string `json:"competitor"`
	ChangeType string `json:"change_type"`
	Impact     string `json:"impact"`
}

// Report is a synthesis over a project's changes within a resolved
// [PeriodStart, PeriodEnd] window. Summary is nil when synthesis was
// skipped or failed; the report itself is still created.
type Report struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"project_id"`
	PeriodStart time.Time   `json:"period_start"`
	PeriodEnd   time.Time   `json:"period_end"`
	GeneratedAt time.Time   `json:"generated_at"`
	Summary     *string     `json:"summary"`
	Highlights  []Highlight `json:"highlights"`
	ArtifactRef *string     `json:"artifact_ref,omitempty"`
}
