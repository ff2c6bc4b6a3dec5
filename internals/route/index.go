package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/middlewares"
	authmw "sekolahku_backend/internals/middlewares/auth"
	routeDetails "sekolahku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	// Tanpa AuthMiddleware: register/login, verifikasi sertifikat,
	// webhook payment gateway.
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api")
	routeDetails.PublicRoutes(public, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api", middlewares.DBMiddleware(db), authmw.AuthMiddleware())
	routeDetails.SchoolRoutes(private, db)
	routeDetails.FinanceRoutes(private, db)
}
