package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"parlour-attendance/config/middleware"
	_ "parlour-attendance/docs"
	"parlour-attendance/handlers"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Employee   *handlers.EmployeeHandler
	Attendance *handlers.AttendanceHandler
	Task       *handlers.TaskHandler
	Realtime   *handlers.RealtimeHandler
	Tokens     middleware.TokenValidator
}

func SetupRoutes(app *fiber.App, h Handlers) {
	log.Println("Registering application routes...")

	auth := middleware.AuthMiddleware(h.Tokens)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Parlour Attendance API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	// Realtime dashboard feed
	app.Use("/ws", h.Realtime.RequireUpgrade)
	app.Get("/ws/attendance", h.Realtime.Stream())

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	// Authentication routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Get("/profile", auth, h.Auth.Profile)

	// Employee routes
	employeeGroup := api.Group("/employees", auth)
	employeeGroup.Get("/", h.Employee.GetAllEmployees)
	employeeGroup.Get("/:id", h.Employee.GetEmployee)
	employeeGroup.Post("/", h.Employee.CreateEmployee)
	employeeGroup.Put("/:id", h.Employee.UpdateEmployee)
	employeeGroup.Delete("/:id", h.Employee.DeleteEmployee)

	// Attendance routes
	attendanceGroup := api.Group("/attendance", auth)
	attendanceGroup.Post("/punch", h.Attendance.Punch)
	attendanceGroup.Get("/today", h.Attendance.GetTodayAttendance)
	attendanceGroup.Get("/", h.Attendance.GetAllAttendance)
	attendanceGroup.Get("/employee/:employeeId/badge", h.Attendance.GetEmployeeBadge)
	attendanceGroup.Get("/employee/:employeeId", h.Attendance.GetEmployeeAttendance)

	// Task routes
	taskGroup := api.Group("/tasks", auth)
	taskGroup.Get("/", h.Task.GetAllTasks)
	taskGroup.Get("/:id", h.Task.GetTask)
	taskGroup.Post("/", h.Task.CreateTask)
	taskGroup.Put("/:id", h.Task.UpdateTask)
	taskGroup.Delete("/:id", h.Task.DeleteTask)

	log.Println("Routes registered:")
	log.Println("- POST /api/auth/login")
	log.Println("- GET /api/auth/profile (protected)")
	log.Println("- GET|POST /api/employees (protected)")
	log.Println("- GET|PUT|DELETE /api/employees/:id (protected)")
	log.Println("- POST /api/attendance/punch (protected)")
	log.Println("- GET /api/attendance/today (protected)")
	log.Println("- GET /api/attendance (protected)")
	log.Println("- GET /api/attendance/employee/:employeeId (protected)")
	log.Println("- GET /api/attendance/employee/:employeeId/badge (protected)")
	log.Println("- GET|POST /api/tasks (protected)")
	log.Println("- GET|PUT|DELETE /api/tasks/:id (protected)")
	log.Println("- GET /ws/attendance (websocket)")
	log.Println("Swagger documentation available at: /docs/index.html")
}
