package services

import (
	"strconv"
	"strings"
	"time"

	"urbanfix-be/models"
)

// SubmissionFields are the explicit values a citizen typed into the
// report form. Empty strings mean "not provided".
type SubmissionFields struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Location    string
	Department  string
	Latitude    string
	Longitude   string
	Address     string
	Ward        string
	Language    string
}

// ResolveIssue merges explicit form fields with the optional image
// detection and voice extraction into one issue payload. For every
// field the first non-empty source wins, in order: user value, image
// detection, voice extraction, hard-coded default. Either AI input may
// be nil; the user's explicit data always produces a valid issue.
func ResolveIssue(f SubmissionFields, img *ImageDetection, voice *VoiceExtraction, detectedLanguage string, now time.Time) models.Issue {
	var imgTitle, imgType, imgSeverity, imgDepartment string
	if img != nil {
		imgTitle = img.Description
		imgType = img.IssueType
		imgSeverity = img.Severity
		imgDepartment = img.SuggestedDepartment
	}

	var voiceTitle, voiceType, voicePriority, voiceLocation string
	if voice != nil {
		voiceTitle = voice.Description
		voiceType = voice.IssueType
		voicePriority = voice.Priority
		voiceLocation = voice.Location
	}

	issue := models.Issue{
		Title:       firstNonEmpty(f.Title, imgTitle, voiceTitle, "New Issue"),
		Description: firstNonEmpty(f.Description, imgTitle, voiceTitle, ""),
		Category:    normalizeCategory(firstNonEmpty(f.Category, imgType, voiceType, "")),
		Priority:    normalizePriority(firstNonEmpty(f.Priority, imgSeverity, voicePriority, "")),
		Status:      models.Submitted,
		Location:    firstNonEmpty(f.Location, voiceLocation, ""),
		Department:  firstNonEmpty(f.Department, imgDepartment, ""),
		Latitude:    parseCoordinate(f.Latitude),
		Longitude:   parseCoordinate(f.Longitude),
		Address:     f.Address,
		Ward:        f.Ward,
		Language:    firstNonEmpty(f.Language, detectedLanguage, "en"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if img != nil {
		issue.AIDetection = &models.AIDetection{
			IssueType:           img.IssueType,
			Confidence:          clamp01(img.Confidence),
			Description:         img.Description,
			Severity:            img.Severity,
			SuggestedDepartment: img.SuggestedDepartment,
		}
		confidence := clamp01(img.Confidence)
		issue.AIConfidence = &confidence
	}

	return issue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// normalizeCategory maps a merged category value onto the closed enum,
// falling back to "other" for anything the AI invented.
func normalizeCategory(s string) models.IssueCategory {
	s = strings.ToLower(strings.TrimSpace(s))
	if models.ValidCategory(s) {
		return models.IssueCategory(s)
	}
	return models.OtherCategory
}

// normalizePriority maps a merged priority or severity value onto the
// closed enum, falling back to "medium".
func normalizePriority(s string) models.IssuePriority {
	s = strings.ToLower(strings.TrimSpace(s))
	if models.ValidPriority(s) {
		return models.IssuePriority(s)
	}
	return models.PriorityMedium
}

// parseCoordinate parses a GPS coordinate from form input. Invalid or
// absent values become nil, never an error.
func parseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
