package services

import (
	"math"

	"urbanfix-be/models"
)

// IssueStats are the derived counts over an issue set.
type IssueStats struct {
	Total             int     `json:"total"`
	Pending           int     `json:"pending"`
	InProgress        int     `json:"inProgress"`
	Resolved          int     `json:"resolved"`
	AvgResolutionDays float64 `json:"avgResolutionDays"`
}

// ComputeStats reduces an issue set (already filtered by the caller,
// e.g. by department) into counts and the average resolution time.
//
// Pending counts submitted and acknowledged issues, each exactly once.
// AvgResolutionDays averages ceil(resolution duration in days) over
// resolved issues that carry a resolution timestamp, rounded to one
// decimal place; it is 0 when no issue qualifies.
func ComputeStats(issues []models.Issue) IssueStats {
	var stats IssueStats
	var resolutionDays int
	var resolvedWithDate int

	for _, issue := range issues {
		stats.Total++

		switch issue.Status {
		case models.Submitted, models.Acknowledged:
			stats.Pending++
		case models.InProgress:
			stats.InProgress++
		case models.Resolved:
			stats.Resolved++
			if issue.ResolvedAt != nil {
				days := math.Ceil(issue.ResolvedAt.Sub(issue.CreatedAt).Seconds() / 86400)
				if days < 0 {
					days = 0
				}
				resolutionDays += int(days)
				resolvedWithDate++
			}
		}
	}

	if resolvedWithDate > 0 {
		mean := float64(resolutionDays) / float64(resolvedWithDate)
		stats.AvgResolutionDays = math.Round(mean*10) / 10
	}

	return stats
}
