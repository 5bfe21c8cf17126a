package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/refurbmart/refurb-store-backend/internal/category"
	"github.com/refurbmart/refurb-store-backend/internal/config"
	"github.com/refurbmart/refurb-store-backend/internal/httpx"
	"github.com/refurbmart/refurb-store-backend/internal/identity"
	"github.com/refurbmart/refurb-store-backend/internal/logging"
	"github.com/refurbmart/refurb-store-backend/internal/order"
	"github.com/refurbmart/refurb-store-backend/internal/product"
)

// main wires dependencies and starts the HTTP server. The database pool is
// opened here and handed to each repository; no package keeps its own handle.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New()

	db := mustOpenDB(cfg, log)
	defer db.Close()

	app := fiber.New()
	setupCORS(app)
	app.Use(httpx.RequestLogger(log))
	if cfg.JWTSecret != "" {
		app.Use(identity.Optional(cfg.JWTSecret))
	}

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	categoryHandler.RegisterPublicRoutes(app)

	productHandler := product.NewHandler(product.NewService(product.NewPostgresRepository(db)))
	productHandler.RegisterPublicRoutes(app)

	orderService := order.NewService(db, order.NewInventoryGuard(),
		order.NewPostgresRepository(db, log), log, cfg.CheckoutTimeout)
	orderHandler := order.NewHandler(orderService)
	orderHandler.RegisterPublicRoutes(app)

	log.Info("starting server", slog.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(cfg config.Config, log *slog.Logger) *sql.DB {
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// bounded pool: exhaustion surfaces as a driver error instead of a hang
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)

	if err := db.Ping(); err != nil {
		log.Error("failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return db
}
