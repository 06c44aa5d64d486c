package routes

import (
	"lixozero/internal/api/handlers"
	"lixozero/internal/middleware"
	"lixozero/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	InventoryHandler handlers.InventoryHandler
	ShoppingHandler  handlers.ShoppingHandler
	MidtransHandler  handlers.MidtransHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Inventory()
	c.ShoppingList()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
		user.Post("/subscribe", c.Middleware.AuthMiddleware(c.JWTService), c.MidtransHandler.CreateSubscription)
	}
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))

	inventory.Post("/acquisitions/text", c.InventoryHandler.RegisterAcquisitionText)
	inventory.Post("/acquisitions/photo", c.InventoryHandler.RegisterAcquisitionPhoto)
	inventory.Post("/consume", c.InventoryHandler.ConsumeFood)
	inventory.Post("/spoiled", c.InventoryHandler.MarkAsSpoiled)
	inventory.Get("/waste-report", c.InventoryHandler.GetWasteReport)
	inventory.Get("", c.InventoryHandler.GetFoodItems)
	inventory.Get("/:id", c.InventoryHandler.GetFoodItemDetails)
}

func (c *Config) ShoppingList() {
	shopping := c.App.Group("/api/v1/shopping-list", c.Middleware.AuthMiddleware(c.JWTService))

	shopping.Post("", c.ShoppingHandler.AddManualItem)
	shopping.Get("", c.ShoppingHandler.GetShoppingList)
	shopping.Patch("/:id/quantity", c.ShoppingHandler.AdjustQuantity)
	shopping.Patch("/:id/priority", c.ShoppingHandler.SetPriority)
	shopping.Delete("/:id", c.ShoppingHandler.RemoveItem)
	shopping.Delete("", c.ShoppingHandler.ClearList)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.MidtransHandler.HandleNotification)
}
