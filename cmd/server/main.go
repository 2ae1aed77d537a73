package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"romanchat-backend/internal/api"
	"romanchat-backend/internal/config"
	"romanchat-backend/internal/handlers"
	"romanchat-backend/internal/llm"
	"romanchat-backend/internal/services"
	"romanchat-backend/internal/store/file"
	"romanchat-backend/internal/web"
)

func main() {
	log.Println("Starting RomanChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Transcript Store
	transcriptStore, err := file.NewStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize transcript store: %v", err)
	}
	log.Printf("File transcript store initialized at %s.", cfg.StorageDir)

	// 3. Initialize Dependencies (Services, Handlers)
	streamer := llm.NewOpenAIStreamer(cfg.OpenAIKey, cfg.Model)
	log.Printf("OpenAI streamer initialized with model %s.", cfg.Model)

	chatService := services.NewChatService(streamer, cfg.MaxHistoryMessages)
	log.Println("ChatService initialized.")
	transcriptService := services.NewTranscriptService(transcriptStore)
	log.Println("TranscriptService initialized.")

	chatHandler := handlers.NewChatHandlers(chatService)
	log.Println("ChatHandler initialized.")
	transcriptHandler := handlers.NewTranscriptHandlers(transcriptService)
	log.Println("TranscriptHandler initialized.")

	webHandler, err := web.NewHandler()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize web UI: %v", err)
	}
	log.Println("Web UI handler initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		ChatHandler:       chatHandler,
		TranscriptHandler: transcriptHandler,
		WebHandler:        webHandler,
		Config:            cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// WriteTimeout stays unset so long-lived completion streams are
		// not cut off mid-response.
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	// Create a deadline context for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
