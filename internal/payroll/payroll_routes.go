package payroll

import (
	"go-empms/internal/middleware"
	"go-empms/internal/rbac"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer *casbin.Enforcer, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	// Payroll runs are heavy; throttle per admin on top of the global IP limit.
	payrolls.Use(middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		payrolls.POST("/process",
			rbac.Authorize(enforcer, "payroll", "process"),
			middleware.Idempotency(rdb),
			handler.Process,
		)
		payrolls.PUT("/:id/adjust", rbac.Authorize(enforcer, "payroll", "adjust"), handler.Adjust)
		payrolls.PUT("/:id/finalize", rbac.Authorize(enforcer, "payroll", "finalize"), handler.Finalize)
		payrolls.PUT("/:id/pay", rbac.Authorize(enforcer, "payroll", "pay"), handler.MarkPaid)

		payrolls.GET("", rbac.Authorize(enforcer, "payroll", "read"), handler.GetAll)
		payrolls.GET("/stats", rbac.Authorize(enforcer, "payroll", "stats"), handler.Stats)
		payrolls.GET("/:id", rbac.Authorize(enforcer, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/payslip", rbac.Authorize(enforcer, "payroll", "read"), handler.GetPayslip)
		payrolls.GET("/:id/payslip/pdf", rbac.Authorize(enforcer, "payroll", "read"), handler.GetPayslipPDF)
		payrolls.GET("/:id/payslip/download", rbac.Authorize(enforcer, "payroll", "read"), handler.DownloadPayslip)
	}
}
