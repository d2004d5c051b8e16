package employee

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", rbac.Authorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/:id", rbac.Authorize(enforcer, "employee", "read"), handler.GetById)
		employees.POST("", rbac.Authorize(enforcer, "employee", "create"), handler.Create)
		employees.PUT("/:id", rbac.Authorize(enforcer, "employee", "update"), handler.Update)
	}
}
