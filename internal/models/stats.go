package models

// Stats is the summary returned by the stats endpoint.
type Stats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Approved    int `json:"approved"`
	Pending     int `json:"pending"`
	Errors      int `json:"errors"`
	SuccessRate int `json:"successRate"`
}
