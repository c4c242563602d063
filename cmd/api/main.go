package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cinetrack/attendance-backend-go/internal/config"
	"github.com/cinetrack/attendance-backend-go/internal/domain/settings"
	appHTTP "github.com/cinetrack/attendance-backend-go/internal/handler/http"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/clock"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/cron"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/database"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/email"
	"github.com/cinetrack/attendance-backend-go/internal/pkg/jwt"
	"github.com/cinetrack/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cinetrack/attendance-backend-go/internal/service/attendance"
	authService "github.com/cinetrack/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cinetrack/attendance-backend-go/internal/service/employee"
	settingsService "github.com/cinetrack/attendance-backend-go/internal/service/settings"
	tilService "github.com/cinetrack/attendance-backend-go/internal/service/til"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	settingsDefaults := settings.SystemSettings{
		OfficeStartTime:     cfg.Attendance.OfficeStartTime,
		OfficeEndTime:       cfg.Attendance.OfficeEndTime,
		RequiredShiftHours:  cfg.Attendance.RequiredShiftHours,
		BreakThresholdHours: cfg.Attendance.BreakThresholdHours,
		BreakDeductionHours: cfg.Attendance.BreakDeductionHours,
		GraceMinutes:        cfg.Attendance.GraceMinutes,
		EnableAutoClockout:  cfg.Attendance.EnableAutoClockout,
		Timezone:            cfg.Attendance.Timezone,

		EnableWeeklyReports:       cfg.Attendance.EnableWeeklyReports,
		WeeklyReportDay:           time.Weekday(cfg.Attendance.WeeklyReportDay),
		WeeklyReportHour:          cfg.Attendance.WeeklyReportHour,
		EnableEarlyClockoutAlerts: cfg.Attendance.EnableEarlyClockoutAlerts,
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	tapRepo := postgresql.NewTapRepository(db)
	summaryRepo := postgresql.NewDailySummaryRepository(db)
	editRepo := postgresql.NewTimesheetEditRepository(db)
	tilRepo := postgresql.NewTILRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db, settingsDefaults)
	emailLogRepo := postgresql.NewEmailLogRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notifier, err := email.NewNotifier(cfg.SMTP, emailLogRepo)
	if err != nil {
		log.Fatal("Failed to initialize email notifier:", err)
	}
	clk := clock.System()

	attendanceSvc := attendanceService.NewAttendanceService(db, clk, tapRepo, summaryRepo, editRepo, settingsRepo, employeeRepo)
	tilSvc := tilService.NewTILService(db, clk, tilRepo, employeeRepo, cfg.Attendance.TILBlockNegativeBalance)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	authSvc := authService.NewAuthService(userRepo, jwtService)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, employeeSvc)
	tilHandler := appHTTP.NewTILHandler(tilSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	adminHandler := appHTTP.NewAdminHandler(settingsSvc, emailLogRepo)

	sweepInterval, err := time.ParseDuration(cfg.Attendance.SweepInterval)
	if err != nil {
		log.Fatal("Invalid AUTO_CLOCKOUT_INTERVAL:", err)
	}
	scheduler := cron.NewScheduler()
	jobs := cron.NewAttendanceJobs(attendanceSvc, summaryRepo, employeeRepo, settingsRepo, notifier, clk)
	jobs.RegisterJobs(scheduler, sweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		tilHandler,
		employeeHandler,
		adminHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
