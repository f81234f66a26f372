package routes

import (
	"StockCount-Backend/internal/api/handlers"
	"StockCount-Backend/internal/middleware"
	"StockCount-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	SessionHandler   handlers.SessionHandler
	InventoryHandler handlers.InventoryHandler
	ScanHandler      handlers.ScanHandler
	ProductHandler   handlers.ProductHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Sessions()
	c.Scans()
	c.Products()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}

	locations := c.App.Group("/api/v1/locations", c.Middleware.AuthMiddleware(c.JWTService))
	locations.Post("", c.UserHandler.CreateLocation)
}

func (c *Config) Sessions() {
	sessions := c.App.Group("/api/v1/sessions", c.Middleware.AuthMiddleware(c.JWTService))

	// Session lifecycle
	sessions.Post("", c.SessionHandler.CreateSession)
	sessions.Get("", c.SessionHandler.GetSessions)
	sessions.Get("/:id", c.SessionHandler.GetSessionDetails)
	sessions.Post("/:id/complete", c.SessionHandler.CompleteSession)
	sessions.Post("/:id/prefill", c.SessionHandler.PrefillSession)

	// Read-only derived views
	sessions.Get("/:id/differences", c.SessionHandler.GetDifferences)
	sessions.Get("/:id/validate-export", c.SessionHandler.ValidateExport)
	sessions.Get("/:id/audit", c.SessionHandler.GetSessionAudit)

	// Item ledger
	sessions.Post("/:id/items", c.InventoryHandler.AddItem)
	sessions.Get("/:id/items", c.InventoryHandler.GetItems)
	sessions.Patch("/:id/items/:itemId", c.InventoryHandler.UpdateItem)
	sessions.Delete("/:id/items/:itemId", c.InventoryHandler.DeleteItem)
}

func (c *Config) Scans() {
	scans := c.App.Group("/api/v1/scans", c.Middleware.AuthMiddleware(c.JWTService))
	scans.Post("", c.ScanHandler.UploadScan)
	scans.Post("/confirm", c.ScanHandler.ConfirmScan)
	scans.Get("/:id", c.ScanHandler.GetScanResult)
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))
	products.Post("", c.ProductHandler.CreateProduct)
	products.Get("", c.ProductHandler.SearchProducts)
	products.Get("/:id", c.ProductHandler.GetProductDetails)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
