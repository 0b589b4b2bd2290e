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

type DepartmentController struct {
	Departments *repositories.DepartmentRepository
}

func NewDepartmentController(departments *repositories.DepartmentRepository) *DepartmentController {
	return &DepartmentController{Departments: departments}
}

// ListDepartments returns active departments ordered by name
func (dc *DepartmentController) ListDepartments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	departments, err := dc.Departments.ListActive(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve departments"})
		return
	}

	c.JSON(http.StatusOK, departments)
}

// CreateDepartment adds a municipal department (admin only)
func (dc *DepartmentController) CreateDepartment(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description,omitempty"`
		Contact     string `json:"contact,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	department := models.Department{
		ID:          primitive.NewObjectID(),
		Name:        input.Name,
		Description: input.Description,
		Contact:     input.Contact,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := dc.Departments.Create(ctx, &department); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, department)
}
