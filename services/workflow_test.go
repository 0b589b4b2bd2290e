package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"urbanfix-be/models"
)

func newTestIssue() *models.Issue {
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return &models.Issue{
		ID:        primitive.NewObjectID(),
		Title:     "Overflowing garbage bin",
		Category:  models.Garbage,
		Priority:  models.PriorityMedium,
		Status:    models.Submitted,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestApplyStatusChangeAppendsEntry(t *testing.T) {
	issue := newTestIssue()
	actor := primitive.NewObjectID()
	now := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

	entry := ApplyStatusChange(issue, StatusUpdate{
		Status:  models.Acknowledged,
		Notes:   "Assigned to field team",
		ActorID: &actor,
	}, now)

	assert.Equal(t, models.Acknowledged, issue.Status)
	assert.Equal(t, now, issue.UpdatedAt)
	assert.Equal(t, issue.ID, entry.Issue)
	assert.Equal(t, models.Acknowledged, entry.Status)
	assert.Equal(t, "Assigned to field team", entry.Notes)
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, actor, *entry.ChangedBy)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestResolutionStampSetOnlyOnResolve(t *testing.T) {
	for _, status := range []models.IssueStatus{
		models.Acknowledged, models.InProgress, models.Rejected,
	} {
		t.Run(string(status), func(t *testing.T) {
			issue := newTestIssue()
			ApplyStatusChange(issue, StatusUpdate{Status: status}, time.Now())
			assert.Nil(t, issue.ResolvedAt)
		})
	}

	issue := newTestIssue()
	now := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)
	ApplyStatusChange(issue, StatusUpdate{Status: models.Resolved}, now)
	require.NotNil(t, issue.ResolvedAt)
	assert.Equal(t, now, *issue.ResolvedAt)
}

func TestResolutionStampNeverCleared(t *testing.T) {
	issue := newTestIssue()
	first := time.Date(2025, 5, 4, 9, 0, 0, 0, time.UTC)

	ApplyStatusChange(issue, StatusUpdate{Status: models.Resolved}, first)
	require.NotNil(t, issue.ResolvedAt)

	// moving back off resolved keeps the stamp
	ApplyStatusChange(issue, StatusUpdate{Status: models.InProgress}, first.Add(24*time.Hour))
	require.NotNil(t, issue.ResolvedAt)
	assert.Equal(t, first, *issue.ResolvedAt)

	// re-resolving keeps the original stamp
	ApplyStatusChange(issue, StatusUpdate{Status: models.Resolved}, first.Add(48*time.Hour))
	require.NotNil(t, issue.ResolvedAt)
	assert.Equal(t, first, *issue.ResolvedAt)
}

func TestApplyStatusChangeFieldOverwrites(t *testing.T) {
	issue := newTestIssue()
	issue.Department = "old-department"
	department := "sanitation-id"
	assignee := "worker-42"

	ApplyStatusChange(issue, StatusUpdate{
		Status:     models.InProgress,
		Department: &department,
		AssignedTo: &assignee,
	}, time.Now())

	assert.Equal(t, "sanitation-id", issue.Department)
	assert.Equal(t, "worker-42", issue.AssignedTo)

	// nil pointers leave the fields alone
	ApplyStatusChange(issue, StatusUpdate{Status: models.Resolved}, time.Now())
	assert.Equal(t, "sanitation-id", issue.Department)
	assert.Equal(t, "worker-42", issue.AssignedTo)
}

func TestEveryTransitionYieldsOneEntry(t *testing.T) {
	issue := newTestIssue()
	var entries []models.StatusHistoryEntry

	path := []models.IssueStatus{
		models.Acknowledged, models.InProgress, models.Resolved,
	}
	now := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	for i, status := range path {
		entries = append(entries, ApplyStatusChange(issue, StatusUpdate{Status: status}, now.Add(time.Duration(i)*time.Hour)))
	}

	require.Len(t, entries, len(path))
	for i, entry := range entries {
		assert.Equal(t, path[i], entry.Status)
		assert.Equal(t, issue.ID, entry.Issue)
		if i > 0 {
			assert.True(t, entry.CreatedAt.After(entries[i-1].CreatedAt))
		}
	}
}

func TestInitialHistoryEntry(t *testing.T) {
	reporter := primitive.NewObjectID()
	issue := newTestIssue()
	issue.ReportedBy = &reporter
	now := issue.CreatedAt

	entry := InitialHistoryEntry(issue, now)

	assert.Equal(t, issue.ID, entry.Issue)
	assert.Equal(t, models.Submitted, entry.Status)
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, reporter, *entry.ChangedBy)
	assert.Equal(t, now, entry.CreatedAt)
}

func TestInitialHistoryEntryAnonymous(t *testing.T) {
	issue := newTestIssue()

	entry := InitialHistoryEntry(issue, issue.CreatedAt)

	assert.Nil(t, entry.ChangedBy)
	assert.Equal(t, models.Submitted, entry.Status)
}
