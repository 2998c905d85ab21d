package config

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var allowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

func GetAllowedOrigins() []string {
	return allowedOrigins
}

// SetupCORS allows the dashboard origins plus FRONTEND_URL (comma separated).
func SetupCORS(app *fiber.App, frontendURL string) {
	for _, origin := range strings.Split(frontendURL, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" && !isAllowedOrigin(origin) {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOrigins, ", "),
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS, PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, Content-Type",
	}))
}

func isAllowedOrigin(origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == origin {
			return true
		}
	}
	return false
}
