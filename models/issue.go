package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Pothole       IssueCategory = "pothole"
	Garbage       IssueCategory = "garbage"
	Streetlight   IssueCategory = "streetlight"
	WaterLeakage  IssueCategory = "water_leakage"
	RoadDamage    IssueCategory = "road_damage"
	OtherCategory IssueCategory = "other"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// IssueStatus enum
type IssueStatus string

const (
	Submitted    IssueStatus = "submitted"
	Acknowledged IssueStatus = "acknowledged"
	InProgress   IssueStatus = "in_progress"
	Resolved     IssueStatus = "resolved"
	Rejected     IssueStatus = "rejected"
)

// ValidCategory reports whether s is a known issue category.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Pothole, Garbage, Streetlight, WaterLeakage, RoadDamage, OtherCategory:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known issue priority.
func ValidPriority(s string) bool {
	switch IssuePriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known issue status.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case Submitted, Acknowledged, InProgress, Resolved, Rejected:
		return true
	}
	return false
}

// AIDetection holds the raw result of the image classification service,
// kept on the issue for auditing.
type AIDetection struct {
	IssueType           string  `bson:"issueType" json:"issueType"`
	Confidence          float64 `bson:"confidence" json:"confidence"`
	Description         string  `bson:"description" json:"description"`
	Severity            string  `bson:"severity" json:"severity"`
	SuggestedDepartment string  `bson:"suggestedDepartment,omitempty" json:"suggestedDepartment,omitempty"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReportedBy  *primitive.ObjectID `bson:"reportedBy,omitempty" json:"reportedBy,omitempty"` // nil for anonymous reports
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Category    IssueCategory       `bson:"category" json:"category"`
	Priority    IssuePriority       `bson:"priority" json:"priority"`
	Status      IssueStatus         `bson:"status" json:"status"`
	Location    string              `bson:"location" json:"location"`
	Latitude    *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address     string              `bson:"address,omitempty" json:"address,omitempty"`
	Ward        string              `bson:"ward,omitempty" json:"ward,omitempty"`
	Department  string              `bson:"department,omitempty" json:"department,omitempty"` // department ObjectID hex
	AssignedTo  string              `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	PhotoURL    *string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	AudioURL    *string             `bson:"audioUrl,omitempty" json:"audioUrl,omitempty"`
	AIDetection *AIDetection        `bson:"aiDetection,omitempty" json:"aiDetection,omitempty"`
	// AIConfidence is the image classifier's confidence clamped to [0,1];
	// absent when the issue was created without a usable detection.
	AIConfidence *float64   `bson:"aiConfidence,omitempty" json:"aiConfidence,omitempty"`
	EstimatedAt  *time.Time `bson:"estimatedResolutionAt,omitempty" json:"estimatedResolutionAt,omitempty"`
	// ResolvedAt is set when the issue first transitions to resolved and is
	// never cleared afterwards, even if the status later moves back.
	ResolvedAt *time.Time `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	Language   string     `bson:"language" json:"language"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}
