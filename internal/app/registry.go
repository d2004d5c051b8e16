package app

import (
	"database/sql"
	"os"

	"go-empms/internal/attendance"
	"go-empms/internal/auth"
	"go-empms/internal/bootstrap"
	"go-empms/internal/department"
	"go-empms/internal/employee"
	"go-empms/internal/leave"
	"go-empms/internal/messaging/kafka"
	"go-empms/internal/payroll"
	"go-empms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxStore := kafka.NewOutbox(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	departmentService := department.NewService(db, departmentRepo)
	employeeService := employee.NewService(db, employeeRepo)
	leaveService := leave.NewService(db, leaveRepo)
	payrollService := payroll.NewService(payroll.Dependencies{
		DB:         db,
		Repo:       payrollRepo,
		Employees:  employeeRepo,
		Attendance: attendanceService,
		Leaves:     leaveService,
		Outbox:     outboxStore,
		Audit:      bootstrap.NewStdoutAuditLogger(),
		PayslipDir: os.Getenv("PAYSLIP_STORAGE_DIR"),
		Logger:     zap.L(),
	})

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer)
		department.RegisterRoutes(api, departmentHandler, enforcer)
		employee.RegisterRoutes(api, employeeHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer)
		payroll.RegisterRoutes(api, payrollHandler, enforcer, rdb)
	}

	return nil
}
