package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanfix-be/models"
)

var fusionNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestResolveIssueUserFieldsOnly(t *testing.T) {
	fields := SubmissionFields{
		Title:       "Broken streetlight on 5th Ave",
		Description: "The lamp has been dark for a week",
		Category:    "streetlight",
		Priority:    "high",
		Location:    "5th Ave & Oak St",
		Department:  "Public Works",
		Latitude:    "12.9716",
		Longitude:   "77.5946",
		Ward:        "Ward 12",
		Language:    "en",
	}

	issue := ResolveIssue(fields, nil, nil, "", fusionNow)

	assert.Equal(t, "Broken streetlight on 5th Ave", issue.Title)
	assert.Equal(t, "The lamp has been dark for a week", issue.Description)
	assert.Equal(t, models.Streetlight, issue.Category)
	assert.Equal(t, models.PriorityHigh, issue.Priority)
	assert.Equal(t, models.Submitted, issue.Status)
	assert.Equal(t, "5th Ave & Oak St", issue.Location)
	assert.Equal(t, "Public Works", issue.Department)
	require.NotNil(t, issue.Latitude)
	assert.InDelta(t, 12.9716, *issue.Latitude, 1e-9)
	require.NotNil(t, issue.Longitude)
	assert.InDelta(t, 77.5946, *issue.Longitude, 1e-9)
	assert.Nil(t, issue.AIConfidence)
	assert.Nil(t, issue.AIDetection)
}

func TestResolveIssueImageDetectionFillsGaps(t *testing.T) {
	img := &ImageDetection{
		IssueType:   "pothole",
		Confidence:  0.92,
		Description: "Large pothole",
		Severity:    "high",
	}

	issue := ResolveIssue(SubmissionFields{}, img, nil, "", fusionNow)

	assert.Equal(t, "Large pothole", issue.Title)
	assert.Equal(t, "Large pothole", issue.Description)
	assert.Equal(t, models.Pothole, issue.Category)
	assert.Equal(t, models.PriorityHigh, issue.Priority)
	require.NotNil(t, issue.AIConfidence)
	assert.InDelta(t, 0.92, *issue.AIConfidence, 1e-9)
	require.NotNil(t, issue.AIDetection)
	assert.Equal(t, "pothole", issue.AIDetection.IssueType)
}

func TestResolveIssueVoiceExtractionFillsGaps(t *testing.T) {
	voice := &VoiceExtraction{
		IssueType:   "water_leakage",
		Location:    "Behind the market on Station Road",
		Description: "Water has been leaking from a broken pipe",
		Priority:    "critical",
	}

	issue := ResolveIssue(SubmissionFields{}, nil, voice, "hi", fusionNow)

	assert.Equal(t, "Water has been leaking from a broken pipe", issue.Title)
	assert.Equal(t, models.WaterLeakage, issue.Category)
	assert.Equal(t, models.PriorityCritical, issue.Priority)
	assert.Equal(t, "Behind the market on Station Road", issue.Location)
	assert.Equal(t, "hi", issue.Language)
	assert.Nil(t, issue.AIConfidence)
}

func TestResolveIssuePrecedence(t *testing.T) {
	fields := SubmissionFields{
		Title:    "My own title",
		Category: "garbage",
	}
	img := &ImageDetection{
		IssueType:           "pothole",
		Confidence:          0.8,
		Description:         "Detected description",
		Severity:            "low",
		SuggestedDepartment: "Roads",
	}
	voice := &VoiceExtraction{
		IssueType:   "streetlight",
		Location:    "Corner of Elm St",
		Description: "Voice description",
		Priority:    "high",
	}

	issue := ResolveIssue(fields, img, voice, "", fusionNow)

	// user beats image beats voice, per field independently
	assert.Equal(t, "My own title", issue.Title)
	assert.Equal(t, models.Garbage, issue.Category)
	assert.Equal(t, "Detected description", issue.Description)
	assert.Equal(t, models.PriorityLow, issue.Priority)
	assert.Equal(t, "Corner of Elm St", issue.Location)
	assert.Equal(t, "Roads", issue.Department)
}

func TestResolveIssueDefaults(t *testing.T) {
	issue := ResolveIssue(SubmissionFields{}, nil, nil, "", fusionNow)

	assert.Equal(t, "New Issue", issue.Title)
	assert.Equal(t, "", issue.Description)
	assert.Equal(t, models.OtherCategory, issue.Category)
	assert.Equal(t, models.PriorityMedium, issue.Priority)
	assert.Equal(t, "", issue.Location)
	assert.Equal(t, "", issue.Department)
	assert.Equal(t, "en", issue.Language)
	assert.Nil(t, issue.Latitude)
	assert.Nil(t, issue.Longitude)
	assert.Equal(t, fusionNow, issue.CreatedAt)
	assert.Equal(t, fusionNow, issue.UpdatedAt)
}

func TestResolveIssueUnknownAIValues(t *testing.T) {
	img := &ImageDetection{
		IssueType:   "sinkhole",
		Confidence:  0.5,
		Description: "Something odd",
		Severity:    "severe",
	}

	issue := ResolveIssue(SubmissionFields{}, img, nil, "", fusionNow)

	assert.Equal(t, models.OtherCategory, issue.Category)
	assert.Equal(t, models.PriorityMedium, issue.Priority)
	// raw detection is kept verbatim for auditing
	assert.Equal(t, "sinkhole", issue.AIDetection.IssueType)
	assert.Equal(t, "severe", issue.AIDetection.Severity)
}

func TestResolveIssueConfidenceClamped(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		expected   float64
	}{
		{"above one", 1.7, 1},
		{"below zero", -0.2, 0},
		{"in range", 0.42, 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &ImageDetection{IssueType: "pothole", Confidence: tt.confidence}
			issue := ResolveIssue(SubmissionFields{}, img, nil, "", fusionNow)
			require.NotNil(t, issue.AIConfidence)
			assert.InDelta(t, tt.expected, *issue.AIConfidence, 1e-9)
		})
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		input    string
		expected *float64
	}{
		{"12.5", ptr(12.5)},
		{" 77.59 ", ptr(77.59)},
		{"-0.25", ptr(-0.25)},
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"12,5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseCoordinate(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.InDelta(t, *tt.expected, *got, 1e-9)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, models.Pothole, normalizeCategory("Pothole"))
	assert.Equal(t, models.RoadDamage, normalizeCategory(" road_damage "))
	assert.Equal(t, models.OtherCategory, normalizeCategory("sinkhole"))
	assert.Equal(t, models.OtherCategory, normalizeCategory(""))
}

func ptr(v float64) *float64 { return &v }
