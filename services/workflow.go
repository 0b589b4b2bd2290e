package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"urbanfix-be/models"
)

// StatusUpdate describes one requested status transition. Department
// and AssignedTo are plain field overwrites carried along with the
// transition, not part of the state machine itself.
type StatusUpdate struct {
	Status      models.IssueStatus
	Notes       string
	ActorID     *primitive.ObjectID
	Department  *string
	AssignedTo  *string
	EstimatedAt *time.Time
}

// ApplyStatusChange mutates the issue for the requested transition and
// returns the history entry that must be persisted together with it.
//
// Invariants:
//   - every transition yields exactly one history entry
//   - ResolvedAt is stamped when the status first becomes resolved and
//     is never cleared or overwritten afterwards
func ApplyStatusChange(issue *models.Issue, upd StatusUpdate, now time.Time) models.StatusHistoryEntry {
	issue.Status = upd.Status
	issue.UpdatedAt = now

	if upd.Status == models.Resolved && issue.ResolvedAt == nil {
		stamp := now
		issue.ResolvedAt = &stamp
	}

	if upd.Department != nil {
		issue.Department = *upd.Department
	}
	if upd.AssignedTo != nil {
		issue.AssignedTo = *upd.AssignedTo
	}
	if upd.EstimatedAt != nil {
		issue.EstimatedAt = upd.EstimatedAt
	}

	return models.StatusHistoryEntry{
		ID:        primitive.NewObjectID(),
		Issue:     issue.ID,
		Status:    upd.Status,
		Notes:     upd.Notes,
		ChangedBy: upd.ActorID,
		CreatedAt: now,
	}
}

// InitialHistoryEntry builds the first history entry appended when an
// issue is created.
func InitialHistoryEntry(issue *models.Issue, now time.Time) models.StatusHistoryEntry {
	return models.StatusHistoryEntry{
		ID:        primitive.NewObjectID(),
		Issue:     issue.ID,
		Status:    models.Submitted,
		Notes:     "Issue submitted",
		ChangedBy: issue.ReportedBy,
		CreatedAt: now,
	}
}
