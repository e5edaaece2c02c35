package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"todo-backend/internal/auth"
	"todo-backend/internal/config"
	"todo-backend/internal/permission"
	"todo-backend/internal/storage"
	"todo-backend/internal/store"
	"todo-backend/internal/todo"
	"todo-backend/internal/web"
)

func main() {
	ctx := context.Background()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, db: %s/%s)", cfg.Server.Port, cfg.Database.Driver, cfg.Database.Name)

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// 3. Create schema and seed defaults
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatalf("Failed to bootstrap database: %v", err)
	}
	log.Println("Database ready")

	// 4. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: web.ErrorHandler,
		// Must exceed the attachment cap so oversized uploads reach the
		// handler's 413 instead of Fiber's; 1 MiB covers multipart framing.
		BodyLimit: int(cfg.Storage.MaxFileSize) + 1<<20,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 5. Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// 6. Auth routes (register/login rate limited; logout behind protect)
	protect := auth.Protect(db, db, cfg.Auth.AccessSecret)
	limit := web.RateLimitByIP(web.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		Burst:             cfg.RateLimit.Burst,
	})
	authHandler := auth.NewHandler(db, *cfg)
	auth.RegisterRoutes(app, authHandler, limit, protect)

	// 7. Todo routes
	todoHandler := todo.NewHandler(db)
	todo.RegisterRoutes(app, todoHandler, protect)

	// 8. Todo attachments
	files := storage.NewLocalStorage(cfg.Storage.LocalPath)
	fileHandler := todo.NewFileHandler(db, files, cfg.Storage.MaxFileSize)
	todo.RegisterFileRoutes(app, fileHandler, protect)

	// 9. Permission administration routes
	permHandler := permission.NewHandler(db)
	permission.RegisterRoutes(app, permHandler, protect)

	// 10. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
