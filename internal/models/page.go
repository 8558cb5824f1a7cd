package models

import "time"

// PageType classifies what kind of competitor page a URL points at.
type PageType string

const (
	PageTypePricing PageType = "PRICING"
	PageTypeLanding PageType = "LANDING"
	PageTypeProduct PageType = "PRODUCT"
	PageTypeBlog    PageType = "BLOG"
	PageTypeOther   PageType = "OTHER"
)

// ParsePageType maps a free-form string onto a known page type,
// falling back to PageTypeOther for anything unrecognized.
func ParsePageType(s string) PageType {
	switch PageType(s) {
	case PageTypePricing, PageTypeLanding, PageTypeProduct, PageTypeBlog, PageTypeOther:
		return PageType(s)
	default:
		return PageTypeOther
	}
}

// Project groups the competitors a user tracks together.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Competitor is a tracked company inside a project.
type Competitor struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"website_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Page is a single monitored URL belonging to a competitor.
// Deleting a page cascades its captures and changes.
type Page struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitor_id"`
	URL          string    `json:"url"`
	Type         PageType  `json:"page_type"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
