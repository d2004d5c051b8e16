package attendance

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/clock-in", rbac.Authorize(enforcer, "attendance", "clock"), handler.ClockIn)
		attendances.POST("/clock-out", rbac.Authorize(enforcer, "attendance", "clock"), handler.ClockOut)
		attendances.GET("", rbac.Authorize(enforcer, "attendance", "read"), handler.GetAll)
	}
}
