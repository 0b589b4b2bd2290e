package routes

import (
	"urbanfix-be/controllers"
	"urbanfix-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. Submission and reads allow
// anonymous callers; triage is staff-only.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, cc *controllers.CommentController, submissionLimit int) {
	issue := r.Group("/api/issue")
	{
		issue.POST("/create", middlewares.OptionalAuthMiddleware(), middlewares.IssueRateLimiter(submissionLimit), ic.CreateIssue)
		issue.GET("", middlewares.OptionalAuthMiddleware(), ic.GetAllIssues)
		issue.GET("/recent", ic.RecentIssues)
		issue.GET("/stats", ic.GetIssueStats)
		issue.GET("/mine", middlewares.AuthMiddleware(), ic.GetMyIssues)
		issue.GET("/:id", middlewares.OptionalAuthMiddleware(), ic.GetIssue)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), middlewares.RequireStaff(), ic.UpdateIssueStatus)
		issue.POST("/:id/vote", middlewares.AuthMiddleware(), ic.HandleVoteOnIssue)
		issue.POST("/:id/comment", middlewares.AuthMiddleware(), cc.AddComment)
		issue.GET("/:id/comments", middlewares.OptionalAuthMiddleware(), cc.ListComments)
	}
}
