package server

import "time"

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type createCompetitorRequest struct {
	Name       string `json:"name"        binding:"required"`
	WebsiteURL string `json:"website_url"`
}

type createPageRequest struct {
	URL      string `json:"url"       binding:"required,url"`
	PageType string `json:"page_type"`
	Note     string `json:"note"`
}

type createReportRequest struct {
	PeriodStart *time.Time `json:"period_start"`
	PeriodEnd   *time.Time `json:"period_end"`
}
