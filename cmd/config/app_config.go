package config

import (
	"context"
	"lixozero/internal/api/handlers"
	"lixozero/internal/api/routes"
	"lixozero/internal/middleware"
	"lixozero/internal/utils"
	"lixozero/internal/utils/storage"
	"lixozero/pkg/gateway"
	"lixozero/pkg/inventory"
	"lixozero/pkg/jwt"
	"lixozero/pkg/midtrans"
	"lixozero/pkg/shopping"
	"lixozero/pkg/user"
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
		TimeZone:   "America/Sao_Paulo",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	extractor := gateway.NewGeminiExtractor()

	// Repository
	userRepository := user.NewUserRepository(db)
	midtransRepository := midtrans.NewMidtransRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	midtransService := midtrans.NewMidtransService(
		midtransRepository,
		userRepository,
	)
	shoppingService := shopping.NewShoppingService(shoppingRepository)
	inventoryService := inventory.NewInventoryService(
		inventoryRepository,
		shoppingRepository,
		userRepository,
		extractor,
		s3,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	midtransHandler := handlers.NewMidtransHandler(midtransService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		InventoryHandler: inventoryHandler,
		ShoppingHandler:  shoppingHandler,
		MidtransHandler:  midtransHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()

	startBackgroundJobs(inventoryService)

	return app, nil
}

// startBackgroundJobs runs the expiry sweeper every hour and the expiry
// digest mailer once a day. Both are safe to re-run, so losing a tick on
// restart is fine.
func startBackgroundJobs(inventoryService inventory.InventoryService) {
	go func() {
		sweep := time.NewTicker(1 * time.Hour)
		digest := time.NewTicker(24 * time.Hour)
		defer sweep.Stop()
		defer digest.Stop()

		for {
			select {
			case <-sweep.C:
				if _, err := inventoryService.SweepAllExpired(context.Background()); err != nil {
					log.Errorf("expiry sweep failed: %v", err)
				}
			case <-digest.C:
				if err := inventoryService.SendExpiryDigests(context.Background()); err != nil {
					log.Errorf("expiry digest failed: %v", err)
				}
			}
		}
	}()
}
