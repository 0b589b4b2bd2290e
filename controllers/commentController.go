package controllers

import (
	"context"
	"net/http"
	"time"

	"urbanfix-be/models"
	"urbanfix-be/repositories"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentController struct {
	Issues   *repositories.IssueRepository
	Comments *repositories.CommentRepository
}

func NewCommentController(issues *repositories.IssueRepository, comments *repositories.CommentRepository) *CommentController {
	return &CommentController{Issues: issues, Comments: comments}
}

// AddComment appends a comment to an issue. Only staff may mark a
// comment internal.
func (cc *CommentController) AddComment(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	author := reporterID(c)
	if author == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Text     string `json:"text" binding:"required,max=1000"`
		Internal bool   `json:"internal,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Internal && !isStaff(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only staff can add internal comments"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := cc.Issues.FindByID(ctx, issueID); err != nil {
		if err == repositories.ErrIssueNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		Author:    *author,
		Text:      input.Text,
		Internal:  input.Internal,
		CreatedAt: time.Now(),
	}

	if err := cc.Comments.Add(ctx, &comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments returns an issue's comments in ascending creation
// order. Internal comments are hidden from non-staff callers.
func (cc *CommentController) ListComments(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	comments, err := cc.Comments.ListForIssue(ctx, issueID, isStaff(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}
