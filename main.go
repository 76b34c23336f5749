package main

import (
	"context"
	"os"

	"armory/cmd"
	"armory/internal/container"
	"armory/internal/database"
	"armory/internal/logger"
	"armory/internal/middleware"
	"armory/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, falling back to system environment variables")
	}

	if len(os.Args) > 1 {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cmd.Execute(ctx)
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("could not connect to the database", zap.Error(err))
	}
	defer db.Close()

	log.Info("connected to the database")

	app := container.NewAppContainer(db)

	// Warm the reference cache before serving requests.
	if err := app.RefCache.Refresh(); err != nil {
		log.Fatal("could not load reference data", zap.Error(err))
	}

	router := gin.Default()
	routes.Register(router, app, log)

	middleware.UpdateHealthStatus("ok")

	addr := os.Getenv("APP_HOST")
	if addr == "" {
		addr = ":8080"
	}
	log.Info("starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
