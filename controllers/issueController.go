package controllers

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"urbanfix-be/models"
	"urbanfix-be/repositories"
	"urbanfix-be/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxUploadBytes = 10 << 20 // 10 MB per attachment

type IssueController struct {
	Issues      *repositories.IssueRepository
	Comments    *repositories.CommentRepository
	Departments *repositories.DepartmentRepository
	Votes       *mongo.Collection
	AI          services.AIService
	Media       *services.MediaService
}

func NewIssueController(
	issues *repositories.IssueRepository,
	comments *repositories.CommentRepository,
	departments *repositories.DepartmentRepository,
	votes *mongo.Collection,
	ai services.AIService,
	media *services.MediaService,
) *IssueController {
	return &IssueController{
		Issues:      issues,
		Comments:    comments,
		Departments: departments,
		Votes:       votes,
		AI:          ai,
		Media:       media,
	}
}

func reporterID(c *gin.Context) *primitive.ObjectID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return nil
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	return &objID
}

func isStaff(c *gin.Context) bool {
	roleVal, _ := c.Get("role")
	role, _ := roleVal.(string)
	return role == "staff" || role == "admin"
}

func readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// CreateIssue handles a report submission: a multipart form of
// explicit fields plus optional photo and audio attachments. The AI
// calls are best-effort; their failure never blocks the submission.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	fields := services.SubmissionFields{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Priority:    c.PostForm("priority"),
		Location:    c.PostForm("location"),
		Department:  c.PostForm("department"),
		Latitude:    c.PostForm("latitude"),
		Longitude:   c.PostForm("longitude"),
		Address:     c.PostForm("address"),
		Ward:        c.PostForm("ward"),
		Language:    c.PostForm("language"),
	}

	fieldErrors := map[string]string{}
	if fields.Category != "" && !models.ValidCategory(fields.Category) {
		fieldErrors["category"] = "unknown category"
	}
	if fields.Priority != "" && !models.ValidPriority(fields.Priority) {
		fieldErrors["priority"] = "unknown priority"
	}
	if len(fields.Title) > 200 {
		fieldErrors["title"] = "must be at most 200 characters"
	}
	if len(fields.Description) > 1000 {
		fieldErrors["description"] = "must be at most 1000 characters"
	}
	if len(fields.Location) > 200 {
		fieldErrors["location"] = "must be at most 200 characters"
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields", "fields": fieldErrors})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 90*time.Second)
	defer cancel()

	var photoURL, audioURL *string
	var detection *services.ImageDetection
	var extraction *services.VoiceExtraction
	detectedLanguage := ""

	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields", "fields": gin.H{"photo": "file too large"}})
			return
		}
		data, contentType, err := readUpload(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields", "fields": gin.H{"photo": "unreadable file"}})
			return
		}

		if url, err := ic.Media.Upload(ctx, "photos", data, contentType); err != nil {
			log.Printf("Photo upload failed: %v", err)
		} else {
			photoURL = &url
		}

		if det, err := ic.AI.ClassifyImage(ctx, data, contentType); err != nil {
			log.Printf("Image classification failed: %v", err)
		} else {
			detection = det
		}
	}

	if file, err := c.FormFile("audio"); err == nil {
		if file.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields", "fields": gin.H{"audio": "file too large"}})
			return
		}
		data, contentType, err := readUpload(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fields", "fields": gin.H{"audio": "unreadable file"}})
			return
		}

		if url, err := ic.Media.Upload(ctx, "audio", data, contentType); err != nil {
			log.Printf("Audio upload failed: %v", err)
		} else {
			audioURL = &url
		}

		if tr, err := ic.AI.TranscribeAudio(ctx, data, contentType); err != nil {
			log.Printf("Audio transcription failed: %v", err)
		} else {
			detectedLanguage = tr.Language
			if ext, err := ic.AI.ExtractIssueText(ctx, tr.Text, tr.Language); err != nil {
				log.Printf("Voice extraction failed: %v", err)
			} else {
				extraction = ext
			}
		}
	}

	now := time.Now()
	issue := services.ResolveIssue(fields, detection, extraction, detectedLanguage, now)
	issue.ID = primitive.NewObjectID()
	issue.ReportedBy = reporterID(c)
	issue.PhotoURL = photoURL
	issue.AudioURL = audioURL
	if issue.Department != "" {
		issue.Department = ic.Departments.ResolveRef(ctx, issue.Department)
	}

	entry := services.InitialHistoryEntry(&issue, now)
	if err := ic.Issues.Create(ctx, &issue, &entry); err != nil {
		log.Printf("Failed to create issue: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// UpdateIssueStatus moves an issue through the triage workflow. The
// history append and the issue update are one transaction.
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status      string     `json:"status" binding:"required"`
		Notes       string     `json:"notes,omitempty"`
		Department  *string    `json:"department,omitempty"`
		AssignedTo  *string    `json:"assignedTo,omitempty"`
		EstimatedAt *time.Time `json:"estimatedResolutionAt,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status", "fields": gin.H{"status": "unknown status"}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.FindByID(ctx, issueID)
	if err != nil {
		if err == repositories.ErrIssueNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	upd := services.StatusUpdate{
		Status:      models.IssueStatus(input.Status),
		Notes:       input.Notes,
		ActorID:     reporterID(c),
		AssignedTo:  input.AssignedTo,
		EstimatedAt: input.EstimatedAt,
	}
	if input.Department != nil {
		resolved := ic.Departments.ResolveRef(ctx, *input.Department)
		upd.Department = &resolved
	}

	entry := services.ApplyStatusChange(issue, upd, time.Now())
	if err := ic.Issues.ApplyStatusUpdate(ctx, issue, &entry); err != nil {
		if err == repositories.ErrIssueNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			log.Printf("Failed to update issue %s: %v", issueID.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		}
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetIssue retrieves an issue with its status history, comments and
// vote count.
func (ic *IssueController) GetIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := ic.Issues.FindByID(ctx, issueID)
	if err != nil {
		if err == repositories.ErrIssueNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	history, err := ic.Issues.HistoryForIssue(ctx, issueID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve status history"})
		return
	}

	comments, err := ic.Comments.ListForIssue(ctx, issueID, isStaff(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	voteCount, err := ic.Votes.CountDocuments(ctx, bson.M{"issue": issueID})
	if err != nil {
		voteCount = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"issue":    issue,
		"history":  history,
		"comments": comments,
		"votes":    voteCount,
	})
}

// GetAllIssues handles retrieving issues with filtering and pagination
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := repositories.IssueFilter{
		Limit:  int64(limit),
		Offset: int64((page - 1) * limit),
	}

	if status := c.Query("status"); status != "" && status != "all" {
		if !models.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		s := models.IssueStatus(status)
		filter.Status = &s
	}
	if category := c.Query("category"); category != "" && category != "all" {
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category filter"})
			return
		}
		cat := models.IssueCategory(category)
		filter.Category = &cat
	}
	if department := c.Query("department"); department != "" && department != "all" {
		ref := ic.Departments.ResolveRef(ctx, department)
		filter.Department = &ref
	}
	if reporter := c.Query("reporter"); reporter != "" {
		objID, err := primitive.ObjectIDFromHex(reporter)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reporter filter"})
			return
		}
		filter.ReportedBy = &objID
	}

	issues, total, err := ic.Issues.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"issues":      issues,
		"totalIssues": total,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetMyIssues retrieves all issues reported by the authenticated user
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	reporter := reporterID(c)
	if reporter == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issues, total, err := ic.Issues.List(ctx, repositories.IssueFilter{ReportedBy: reporter})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":      issues,
		"totalIssues": total,
	})
}

// GetIssueStats returns the aggregate counts, optionally scoped to a
// department.
func (ic *IssueController) GetIssueStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var department *string
	if dep := c.Query("department"); dep != "" && dep != "all" {
		ref := ic.Departments.ResolveRef(ctx, dep)
		department = &ref
	}

	issues, err := ic.Issues.ListForStats(ctx, department)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, services.ComputeStats(issues))
}

// RecentIssues returns the most recent issues that carry coordinates,
// for the public map view
func (ic *IssueController) RecentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issues, err := ic.Issues.ListRecentWithGPS(ctx, 19)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}

	type IssueResponse struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Latitude  float64   `json:"latitude"`
		Longitude float64   `json:"longitude"`
		Location  string    `json:"location"`
		Category  string    `json:"category,omitempty"`
		Status    string    `json:"status,omitempty"`
		CreatedAt time.Time `json:"createdAt,omitempty"`
	}

	response := []IssueResponse{}
	for _, issue := range issues {
		if issue.Latitude != nil && issue.Longitude != nil {
			response = append(response, IssueResponse{
				ID:        issue.ID.Hex(),
				Title:     issue.Title,
				Latitude:  *issue.Latitude,
				Longitude: *issue.Longitude,
				Location:  issue.Location,
				Category:  string(issue.Category),
				Status:    string(issue.Status),
				CreatedAt: issue.CreatedAt,
			})
		}
	}

	c.JSON(http.StatusOK, response)
}

// HandleVoteOnIssue toggles the user's vote on an issue (vote if not
// voted, unvote if already voted)
func (ic *IssueController) HandleVoteOnIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	voter := reporterID(c)
	if voter == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := ic.Issues.FindByID(ctx, issueID); err != nil {
		if err == repositories.ErrIssueNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	count, err := ic.Votes.CountDocuments(ctx, bson.M{"issue": issueID, "user": *voter})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing votes"})
		return
	}

	if count > 0 {
		if _, err := ic.Votes.DeleteOne(ctx, bson.M{"issue": issueID, "user": *voter}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
			return
		}

		updatedVoteCount, err := ic.Votes.CountDocuments(ctx, bson.M{"issue": issueID})
		if err != nil {
			updatedVoteCount = 0
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Vote removed successfully",
			"voted":        false,
			"votes":        updatedVoteCount,
			"userHasVoted": false,
		})
		return
	}

	vote := models.Vote{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		User:      *voter,
		CreatedAt: time.Now(),
	}

	if _, err := ic.Votes.InsertOne(ctx, vote); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		return
	}

	updatedVoteCount, err := ic.Votes.CountDocuments(ctx, bson.M{"issue": issueID})
	if err != nil {
		updatedVoteCount = 1 // At least the vote we just added
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Vote cast successfully",
		"voted":        true,
		"votes":        updatedVoteCount,
		"userHasVoted": true,
	})
}
