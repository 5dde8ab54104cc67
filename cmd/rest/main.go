package main

import (
	"context"
	"log"

	"ai-blueprint-be/internal/bootstrap"
	"ai-blueprint-be/internal/config"
	"ai-blueprint-be/internal/server"
	"ai-blueprint-be/internal/tracer"
	"ai-blueprint-be/pkg/llm/factory"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize LLM Provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Panicf("Unable to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg, llmProvider)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Telemetry Consumer...")
		if err := container.TelemetryService.Consume(context.Background()); err != nil {
			log.Printf("Background Telemetry Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
