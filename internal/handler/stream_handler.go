package handler

import (
	"errors"

	"ai-blueprint-be/internal/pkg/logger"
	"ai-blueprint-be/internal/pkg/serverutils"
	"ai-blueprint-be/internal/service"
	internalWS "ai-blueprint-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// StreamHandler upgrades clients onto the live session stream. Turn,
// state and blueprint events for a session are pushed to every
// connection attached to it.
type StreamHandler struct {
	hub            *internalWS.Hub
	sessionService service.ISessionService
	gateEnabled    bool
	tokenSecret    string
	logger         logger.ILogger
}

func NewStreamHandler(
	hub *internalWS.Hub,
	sessionService service.ISessionService,
	gateEnabled bool,
	tokenSecret string,
	log logger.ILogger,
) *StreamHandler {
	return &StreamHandler{
		hub:            hub,
		sessionService: sessionService,
		gateEnabled:    gateEnabled,
		tokenSecret:    tokenSecret,
		logger:         log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	// 1. The stream is always scoped to one session
	sessionIDStr := c.Query("session_id")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing or invalid 'session_id' query param"})
	}

	if _, err := h.sessionService.GetSessionState(c.UserContext(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		return err
	}

	// 2. Gate check. Token source priority: query param (browser
	// standard), then Authorization header (tooling standard).
	if h.gateEnabled {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
		}

		if _, err := serverutils.ParseGateToken(h.tokenSecret, tokenStr); err != nil {
			h.logger.Warn("StreamHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
	}

	// 3. Upgrade via Fiber WebSocket middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("StreamHandler", "Starting session stream", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID.String())
			h.logger.Info("StreamHandler", "Session stream ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the stream route.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
