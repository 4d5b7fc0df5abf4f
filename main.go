package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"majestic/config"
	"majestic/controllers/admin"
	"majestic/controllers/wallet"
	"majestic/database"
	"majestic/jobs"
	"majestic/routes"
	"majestic/services"
	"majestic/store"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	database.Connect()

	cfg := config.Load()
	svc := services.NewWallet(store.NewGorm(database.DB), cfg)
	wallet.Init(svc)
	admin.Init(svc)

	app := fiber.New()
	routes.Setup(app)
	scheduler := jobs.StartScheduler(svc)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
