package main

import (
	"fmt"
	"net/http"

	"github.com/incubase/attendance-backend-go/internal/config"
	appHTTP "github.com/incubase/attendance-backend-go/internal/handler/http"
	"github.com/incubase/attendance-backend-go/internal/pkg/cron"
	"github.com/incubase/attendance-backend-go/internal/pkg/database"
	"github.com/incubase/attendance-backend-go/internal/pkg/jwt"
	"github.com/incubase/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/incubase/attendance-backend-go/internal/service/attendance"
	authService "github.com/incubase/attendance-backend-go/internal/service/auth"
	settingsService "github.com/incubase/attendance-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	settingsSvc := settingsService.NewSettingsService(settingsRepo, cfg.Attendance.DefaultTimezone)
	calculator := attendanceService.NewStatusCalculator()
	gate := attendanceService.NewAdmissionGate(cfg.Attendance.LegacyIPAllowList)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		userRepo,
		settingsSvc,
		calculator,
		gate,
	)
	authSvc := authService.NewAuthService(userRepo, jwtService)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(attendanceRepo, settingsSvc, calculator, db)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		settingsHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
