package config

import (
	"StockCount-Backend/internal/api/handlers"
	"StockCount-Backend/internal/api/routes"
	"StockCount-Backend/internal/middleware"
	"StockCount-Backend/internal/utils"
	"StockCount-Backend/internal/utils/storage"
	"StockCount-Backend/pkg/audit"
	"StockCount-Backend/pkg/inventory"
	"StockCount-Backend/pkg/jwt"
	"StockCount-Backend/pkg/product"
	"StockCount-Backend/pkg/scan"
	"StockCount-Backend/pkg/session"
	"StockCount-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	recognizer := scan.NewHTTPRecognizer()

	// Repository
	userRepository := user.NewUserRepository(db)
	productRepository := product.NewProductRepository(db)
	sessionRepository := session.NewSessionRepository(db)
	itemRepository := inventory.NewItemRepository(db)
	auditRepository := audit.NewAuditRepository(db)
	scanRepository := scan.NewScanRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	productService := product.NewProductService(productRepository)
	auditService := audit.NewAuditService(auditRepository)
	sessionService := session.NewSessionService(sessionRepository, userRepository, auditRepository)
	inventoryService := inventory.NewInventoryService(itemRepository, sessionRepository, productRepository, auditRepository)
	scanService := scan.NewScanService(scanRepository, sessionRepository, itemRepository, productRepository, inventoryService, recognizer, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	sessionHandler := handlers.NewSessionHandler(sessionService, auditService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	scanHandler := handlers.NewScanHandler(scanService, validator)
	productHandler := handlers.NewProductHandler(productService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		SessionHandler:   sessionHandler,
		InventoryHandler: inventoryHandler,
		ScanHandler:      scanHandler,
		ProductHandler:   productHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
