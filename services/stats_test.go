package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"urbanfix-be/models"
)

var statsBase = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func statusIssue(status models.IssueStatus) models.Issue {
	return models.Issue{Status: status, CreatedAt: statsBase}
}

func resolvedIssue(duration time.Duration) models.Issue {
	resolvedAt := statsBase.Add(duration)
	return models.Issue{
		Status:     models.Resolved,
		CreatedAt:  statsBase,
		ResolvedAt: &resolvedAt,
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.InProgress)
	assert.Equal(t, 0, stats.Resolved)
	assert.Equal(t, 0.0, stats.AvgResolutionDays)
}

func TestComputeStatsSingleResolvedThreeDays(t *testing.T) {
	stats := ComputeStats([]models.Issue{resolvedIssue(72 * time.Hour)})

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 3.0, stats.AvgResolutionDays)
}

func TestComputeStatsCeilsPartialDays(t *testing.T) {
	// 2.1 days rounds up to 3 whole days
	stats := ComputeStats([]models.Issue{resolvedIssue(50*time.Hour + 24*time.Minute)})

	assert.Equal(t, 3.0, stats.AvgResolutionDays)
}

func TestComputeStatsAverageRoundedToOneDecimal(t *testing.T) {
	stats := ComputeStats([]models.Issue{
		resolvedIssue(24 * time.Hour),  // 1 day
		resolvedIssue(48 * time.Hour),  // 2 days
		resolvedIssue(48 * time.Hour),  // 2 days
	})

	// mean of 1, 2, 2 = 1.666... -> 1.7
	assert.Equal(t, 1.7, stats.AvgResolutionDays)
}

func TestComputeStatsPendingCountsEachStatusOnce(t *testing.T) {
	stats := ComputeStats([]models.Issue{
		statusIssue(models.Submitted),
		statusIssue(models.Submitted),
		statusIssue(models.Acknowledged),
		statusIssue(models.InProgress),
		statusIssue(models.Rejected),
	})

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 0, stats.Resolved)
}

func TestComputeStatsResolvedWithoutTimestampExcludedFromAverage(t *testing.T) {
	stats := ComputeStats([]models.Issue{
		statusIssue(models.Resolved), // no ResolvedAt
		resolvedIssue(24 * time.Hour),
	})

	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1.0, stats.AvgResolutionDays)
}

func TestComputeStatsAllResolvedMissingTimestamp(t *testing.T) {
	stats := ComputeStats([]models.Issue{statusIssue(models.Resolved)})

	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 0.0, stats.AvgResolutionDays)
}
