package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biniyam93/A-Mesob-Chatbot/internal/api"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/config"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/core"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/ingest"
	"github.com/biniyam93/A-Mesob-Chatbot/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	// Initialize the ingestion pipeline. Chunk parameters are validated here
	// so a bad configuration fails at startup, not on the first upload.
	pipeline, err := ingest.NewPipeline(ingest.DefaultRegistry(), config.AppConfig.ChunkSize, config.AppConfig.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunk configuration (CHUNK_SIZE=%d, CHUNK_OVERLAP=%d): %v",
			config.AppConfig.ChunkSize, config.AppConfig.ChunkOverlap, err)
	}

	// Initialize services
	documentService := core.NewDocumentService(dbStore, pipeline)
	chatService := core.NewChatService(dbStore, llmService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, documentService, llmService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second, // Adjusted for potentially slower LLM handshakes
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received
	log.Println("Shutting down server...")

	// Create a context with a timeout for the shutdown.
	// This gives active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel() // Release resources if srv.Shutdown completes before timeout

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
