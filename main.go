package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"urbanfix-be/config"
	"urbanfix-be/controllers"
	"urbanfix-be/models"
	"urbanfix-be/repositories"
	"urbanfix-be/routes"
	"urbanfix-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()
	config.ConnectMinio()

	voteCollection := db.Collection("votes")
	if err := models.EnsureVoteIndex(voteCollection); err != nil {
		log.Printf("Failed to ensure vote index: %v", err)
	}

	issueRepo := repositories.NewIssueRepository(config.GetClient(), db)
	commentRepo := repositories.NewCommentRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)

	aiModel := os.Getenv("AI_MODEL")
	if aiModel == "" {
		aiModel = "claude-sonnet-4-20250514"
	}
	ai := services.NewAIClient(os.Getenv("ANTHROPIC_API_KEY"), aiModel, os.Getenv("TRANSCRIBE_URL"))

	mediaBaseURL := os.Getenv("MINIO_PUBLIC_URL")
	if mediaBaseURL == "" {
		mediaBaseURL = "http://" + os.Getenv("MINIO_ENDPOINT")
	}
	media := services.NewMediaService(config.MinioClient, config.MediaBucket, mediaBaseURL)

	issueController := controllers.NewIssueController(issueRepo, commentRepo, departmentRepo, voteCollection, ai, media)
	commentController := controllers.NewCommentController(issueRepo, commentRepo)
	departmentController := controllers.NewDepartmentController(departmentRepo)

	submissionLimit := 10
	if v, err := strconv.Atoi(os.Getenv("ISSUE_SUBMISSION_LIMIT")); err == nil && v > 0 {
		submissionLimit = v
	}

	frontendOrigin := os.Getenv("FRONTEND_ORIGIN")
	if frontendOrigin == "" {
		frontendOrigin = "http://localhost:3000"
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.AuthRoutes(r)
	routes.IssueRoutes(r, issueController, commentController, submissionLimit)
	routes.DepartmentRoutes(r, departmentController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
