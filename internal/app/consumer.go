package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-empms/internal/attendance"
	"go-empms/internal/employee"
	"go-empms/internal/events"
	"go-empms/internal/leave"
	"go-empms/internal/messaging/kafka/consumer"
	"go-empms/internal/payroll"
	"go-empms/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer generates payslip documents for finalized payrolls until
// SIGINT/SIGTERM.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	employeeRepo := employee.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendance.NewRepository(gormDB))
	leaveService := leave.NewService(sqlDB, leave.NewRepository(gormDB))
	payrollService := payroll.NewService(payroll.Dependencies{
		DB:         sqlDB,
		Repo:       payroll.NewRepository(gormDB),
		Employees:  employeeRepo,
		Attendance: attendanceService,
		Leaves:     leaveService,
		PayslipDir: os.Getenv("PAYSLIP_STORAGE_DIR"),
		Logger:     zap.L(),
	})

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        "go-empms-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollPayslipRequested(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
