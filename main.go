package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"classtrack_go/config"
	"classtrack_go/database"
	"classtrack_go/database/seeders"
	"classtrack_go/middleware"
	"classtrack_go/routes"
	"classtrack_go/services"
	"classtrack_go/services/websocket"
)

func init() {
	setupLogging()
	config.LoadConfig()
	database.Connect()

	if config.AppConfig.SeedDemoData {
		if err := seeders.SeedDemoData(); err != nil {
			logrus.WithError(err).Warn("Demo data seeding failed")
		}
	}
}

func main() {
	wsHub := websocket.NewHub()
	go wsHub.Run()
	services.SetHub(wsHub)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(config.AppConfig.MaxFileSize),
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Use(middleware.LoggerMiddleware())

	reminderScheduler := services.NewReminderScheduler()
	if err := reminderScheduler.Start(); err != nil {
		log.Fatal("Failed to start reminder scheduler:", err)
	}

	logMaintenance := services.NewLogMaintenanceService()
	if err := logMaintenance.Start(); err != nil {
		log.Fatal("Failed to start log maintenance:", err)
	}

	routes.SetupRoutes(app)

	addr := ":" + config.AppConfig.Port
	log.Printf("Server starting on port %s (env=%s)", config.AppConfig.Port, config.AppConfig.AppEnv)

	if err := app.Listen(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		logrus.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logrus.SetOutput(file)
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
