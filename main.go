package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/cache"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/db"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/realtime"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Printf("Error disconnecting from Redis: %v", err)
		}
	}()

	// Initialize gateway and services
	gw := gateway.NewMongo(mongoDb, redisClient, cfg)

	taskClient := tasks.NewClient(redisClient)
	defer taskClient.Close()
	enqueuer := tasks.NewEnqueuer(taskClient)

	feedService := services.NewFeedService(gw, cfg)
	tradeService := services.NewTradeService(gw, enqueuer)
	chatService := services.NewChatService(gw)
	catalogService := services.NewCatalogService(gw)

	taskProcessor := tasks.NewTaskProcessor(cfg, gw, enqueuer)

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Root context for background work, canceled on shutdown
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server

	fmt.Printf("Starting application in '%s' mode...\n", cfg.RunMode)

	apiMode := func() {
		fmt.Println("Starting main API server...")

		// Keep cached views in step with the database while the API runs.
		notifier := gateway.NewMongoNotifier(mongoDb)
		syncer := realtime.NewSyncer(notifier, cfg.RealtimeRetryDelay)
		syncer.OnChange("offers", tradeService.ReloadCached)
		syncer.OnChange("messages", tradeService.ReloadCached)
		syncer.Run(rootCtx, &wg)

		mainApiRouter := api.SetupRouter(cfg, feedService, tradeService, chatService, catalogService)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: mainApiRouter,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fmt.Printf("Main API listening on :%s\n", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Main API ListenAndServe error: %v", err)
			}
			fmt.Println("Main API server stopped.")
		}()
	}

	bgMode := func() {
		fmt.Println("Starting background worker...")
		backgroundTaskSrv = tasks.SetupServer(redisClient, taskProcessor, true)

		// Kick off the periodic stale-offer sweep; it re-enqueues itself.
		if err := enqueuer.EnqueueOfferSweep(rootCtx, time.Minute); err != nil {
			log.Printf("Failed to schedule initial offer sweep: %v", err)
		}
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatalf("Invalid run mode specified in config: %s.", cfg.RunMode)
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if mainApiSrv != nil {
		fmt.Println("Shutting down Main API server...")
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Printf("Main API server shutdown error: %v", err)
		}
	}

	if backgroundTaskSrv != nil {
		fmt.Println("Shutting down Background Task server...")
		backgroundTaskSrv.Shutdown()
	}

	fmt.Println("Waiting for servers to stop...")
	wg.Wait()

	fmt.Println("Server gracefully stopped")
}
