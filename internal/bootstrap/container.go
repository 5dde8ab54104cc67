package bootstrap

import (
	"log"
	"time"

	"ai-blueprint-be/internal/config"
	"ai-blueprint-be/internal/controller"
	"ai-blueprint-be/internal/handler"
	"ai-blueprint-be/internal/pkg/logger"
	"ai-blueprint-be/internal/pkg/serverutils"
	"ai-blueprint-be/internal/repository/memory"
	"ai-blueprint-be/internal/service"
	"ai-blueprint-be/internal/websocket"
	"ai-blueprint-be/pkg/llm"
	"ai-blueprint-be/pkg/telemetry"

	pktNats "ai-blueprint-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	BlueprintController controller.IBlueprintController
	GateController      controller.IGateController

	// Background Services (Exposed for main.go to run)
	TelemetryService service.ITelemetryService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(cfg *config.Config, llmProvider llm.LLMProvider) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	// Buffered so a slow or absent telemetry consumer never blocks a turn
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS is an optional side channel: a dead broker only costs lifecycle events
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	} else {
		log.Printf("[INFO] NATS not configured, lifecycle events disabled")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// Telemetry: bus publisher on the hot path, webhook sink on the consumer side
	telemetrySink := telemetry.NewWebhookSink(
		cfg.Telemetry.WebhookURL,
		time.Duration(cfg.Telemetry.TimeoutSeconds)*time.Second,
	)
	telemetryPublisher := telemetry.NewPublisher(pubSub, cfg.Telemetry.TopicName)

	// 4. Services
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)

	sessionService := service.NewSessionService(
		llmProvider,
		cfg.Ai.ReasoningEffort,
		sessionRepo,
		telemetryPublisher,
		natsPub,
		wsHub,
	)
	gateService := service.NewGateService(cfg.Gate)
	telemetryService := service.NewTelemetryService(pubSub, cfg.Telemetry.TopicName, telemetrySink)

	if gateService.Enabled() {
		log.Printf("[INFO] Access gate enabled")
	} else {
		log.Printf("[INFO] Access gate disabled (no ACCESS_CODE configured)")
	}

	// 5. Controllers & Handlers
	gate := serverutils.GateMiddleware(gateService.Enabled(), cfg.Gate.TokenSecret)
	streamHandler := handler.NewStreamHandler(wsHub, sessionService, gateService.Enabled(), cfg.Gate.TokenSecret, sysLogger)

	return &Container{
		BlueprintController: controller.NewBlueprintController(sessionService, gate),
		GateController:      controller.NewGateController(gateService),
		TelemetryService:    telemetryService,
		StreamHandler:       streamHandler,
		WebSocketHub:        wsHub,
	}
}
