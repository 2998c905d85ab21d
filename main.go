package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"parlour-attendance/config"
	"parlour-attendance/handlers"
	"parlour-attendance/jobs"
	"parlour-attendance/pkg/logger"
	"parlour-attendance/pkg/paseto"
	"parlour-attendance/pkg/realtime"
	"parlour-attendance/repository"
	"parlour-attendance/router"
	"parlour-attendance/seeder"
	"parlour-attendance/services"
)

// @title Parlour Attendance API
// @version 1.0
// @description Employee attendance punch-in/punch-out with a realtime dashboard feed
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Employees
// @tag.description Employee management endpoints
//
// @tag.name Attendance
// @tag.description Punch in/out and attendance reports
func main() {
	cfg := config.LoadConfig()
	config.DBName = cfg.DBName
	loc := cfg.Location()
	appLog := logger.NewDefaultLogger(logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	config.MongoConnect(cfg.MONGOSTRING)
	config.InitDatabase()
	defer config.DisconnectDB()

	db := config.GetDatabase()
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := seeder.SeedUsers(seedCtx, userRepo); err != nil {
		log.Printf("Warning: failed to seed default users: %v", err)
	}
	cancelSeed()

	tokens, err := paseto.NewPasetoMaker(cfg.PASETO_SECRET, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialise token maker: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(appLog.Named("realtime"), realtime.DefaultClientBuffer)
	var notifier services.Notifier = hub

	rdb, err := config.ConnectRedis(cfg)
	switch {
	case err != nil:
		log.Printf("Warning: Redis unavailable, realtime updates stay on this instance: %v", err)
	case rdb != nil:
		defer rdb.Close()
		bridge := realtime.NewRedisBridge(rdb, hub, appLog.Named("redis"))
		notifier = bridge
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Redis relay stopped: %v", err)
			}
		}()
	}

	attendanceService := services.NewAttendanceService(services.AttendanceServiceOptions{
		Attendance: attendanceRepo,
		Employees:  employeeRepo,
		Notifier:   notifier,
		Location:   loc,
		Now:        time.Now,
		Logger:     appLog.Named("attendance"),
	})
	employeeService := services.NewEmployeeService(employeeRepo, appLog.Named("employees"))
	taskService := services.NewTaskService(services.TaskServiceOptions{
		Tasks:     taskRepo,
		Employees: employeeRepo,
		Location:  loc,
		Now:       time.Now,
		Logger:    appLog.Named("tasks"),
	})

	scheduler := cron.New(cron.WithLocation(loc))
	if err := jobs.InitCronJobs(scheduler, attendanceService); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName: "Parlour Attendance API",
	})
	app.Use(recover.New())
	config.SetupCORS(app, cfg.FrontendURL)
	app.Use(fiberlogger.New())

	router.SetupRoutes(app, router.Handlers{
		Auth:       handlers.NewAuthHandler(userRepo, tokens),
		Employee:   handlers.NewEmployeeHandler(employeeService),
		Attendance: handlers.NewAttendanceHandler(attendanceService, employeeService),
		Task:       handlers.NewTaskHandler(taskService),
		Realtime:   handlers.NewRealtimeHandler(hub),
		Tokens:     tokens,
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		hub.Close()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Printf("Health Check: http://localhost:%s/api/health", cfg.Port)
	log.Printf("Attendance days are cut in time zone %s", loc)
	log.Printf("CORS enabled for origins: %v", config.GetAllowedOrigins())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
