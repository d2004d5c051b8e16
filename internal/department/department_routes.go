package department

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.GET("", rbac.Authorize(enforcer, "department", "read"), handler.GetAll)
		departments.GET("/:id", rbac.Authorize(enforcer, "department", "read"), handler.GetById)
		departments.POST("", rbac.Authorize(enforcer, "department", "create"), handler.Create)
		departments.PUT("/:id", rbac.Authorize(enforcer, "department", "create"), handler.Update)
	}
}
