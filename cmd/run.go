package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"casino/bot"
	"casino/config"
	"casino/database"
	"casino/events"
	"casino/repository"
	"casino/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting casino bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	userService := service.NewUserService(uowFactory, cfg.StartingBalance)
	slotsService := service.NewSlotsService(uowFactory)
	rouletteService := service.NewRouletteService(uowFactory)
	rpsService := service.NewRPSService(uowFactory)
	rewardService := service.NewRewardService(uowFactory)
	shopService := service.NewShopService(uowFactory)
	blackjackService := service.NewBlackjackService(uowFactory)
	crashService := service.NewCrashService(uowFactory, cfg.CrashCountdownSeconds, cfg.CrashTickInterval)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:  cfg.DiscordToken,
		Prefix: cfg.CommandPrefix,
	}
	discordBot, err := bot.New(botConfig, userService, slotsService, rouletteService, rpsService, rewardService, shopService, blackjackService, crashService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Info("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
