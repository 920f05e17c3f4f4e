package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/CakePasha/HordaBot/bot"
	"github.com/CakePasha/HordaBot/config"
	"github.com/CakePasha/HordaBot/database"
	"github.com/CakePasha/HordaBot/events"
	"github.com/CakePasha/HordaBot/repository"
	"github.com/CakePasha/HordaBot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting Horda Shop bot...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Apply pending migrations before opening the pool
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories and services
	log.Println("Initializing services...")
	userRepo := repository.NewUserRepository(db)
	referralService := service.NewReferralService(userRepo, eventBus)
	userService := service.NewUserService(userRepo)
	discountService := service.NewDiscountService(userRepo, eventBus)
	rateLimiter := service.NewCommandRateLimiter(cfg.CommandCooldown)
	log.Println("Services initialized successfully")

	// Initialize Telegram bot
	log.Println("Initializing Telegram bot...")
	tgBot, err := bot.New(cfg, referralService, userService, discountService, rateLimiter, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Println("Telegram bot initialized successfully")

	// Start long polling; Start blocks until the context is cancelled
	botErr := make(chan error, 1)
	go func() {
		botErr <- tgBot.Start(ctx)
	}()

	log.Printf("Bot is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-botErr:
		if err != nil {
			return fmt.Errorf("bot stopped: %w", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := tgBot.Close(); err != nil {
		log.Printf("Error closing Telegram bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
