package models

import "time"

// ChangeKind classifies a detected delta between two captures.
type ChangeKind string

const (
	ChangeKindText           ChangeKind = "TEXT"
	ChangeKindPrice          ChangeKind = "PRICE"
	ChangeKindSectionAdded   ChangeKind = "SECTION_ADDED"
	ChangeKindSectionRemoved ChangeKind = "SECTION_REMOVED"
	ChangeKindOther          ChangeKind = "OTHER"
)

// Change is a detected, classified delta between two successive captures
// of the same page. OldCaptureID is nil when no prior capture existed.
type Change struct {
	ID           string     `json:"id"`
	PageID       string     `json:"page_id"`
	OldCaptureID *string    `json:"old_capture_id,omitempty"`
	NewCaptureID string     `json:"new_capture_id"`
	Kind         ChangeKind `json:"kind"`
	Field        string     `json:"field"`
	OldValue     string     `json:"old_value"`
	NewValue     string     `json:"new_value"`
	Summary      string     `json:"summary"`
	DetectedAt   time.Time  `json:"detected_at"`
}

// ProjectChange is a change joined with the identity of the page and
// competitor it belongs to, as returned by window queries for reporting.
type ProjectChange struct {
	Change

	CompetitorName string   `json:"competitor_name"`
	PageType       PageType `json:"page_type"`
	PageURL        string   `json:"page_url"`
}
