package leave

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", rbac.Authorize(enforcer, "leave", "create"), handler.Create)
		leaves.GET("", rbac.Authorize(enforcer, "leave", "read"), handler.GetAll)
		leaves.POST("/:id/approve", rbac.Authorize(enforcer, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", rbac.Authorize(enforcer, "leave", "approve"), handler.Reject)
	}
}
