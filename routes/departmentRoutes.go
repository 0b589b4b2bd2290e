package routes

import (
	"urbanfix-be/controllers"
	"urbanfix-be/middlewares"

	"github.com/gin-gonic/gin"
)

// DepartmentRoutes sets up the department routes
func DepartmentRoutes(r *gin.Engine, dc *controllers.DepartmentController) {
	department := r.Group("/api/department")
	{
		department.GET("", dc.ListDepartments)
		department.POST("", middlewares.AuthMiddleware(), middlewares.RequireStaff(), dc.CreateDepartment)
	}
}
