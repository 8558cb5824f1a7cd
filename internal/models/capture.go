package models

import "time"

// PricedItem is a structured pricing fact extracted from a capture.
// It is embedded inside a Capture, never persisted on its own.
type PricedItem struct {
	SKU          string  `json:"sku,omitempty"`
	Label        string  `json:"label"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Availability string  `json:"availability,omitempty"`
	RawLine      string  `json:"raw_line,omitempty"`
}

// Capture is one point-in-time recording of a page's content.
// Captures for a page are totally ordered by CapturedAt; the change
// detector always compares against the latest capture before the new one.
type Capture struct {
	ID             string       `json:"id"`
	PageID         string       `json:"page_id"`
	CapturedAt     time.Time    `json:"captured_at"`
	RawHTML        *string      `json:"raw_html,omitempty"`
	NormalizedText *string      `json:"normalized_text,omitempty"`
	Pricing        []PricedItem `json:"pricing,omitempty"`
}
