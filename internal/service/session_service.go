package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ai-blueprint-be/internal/constant"
	"ai-blueprint-be/internal/dto"
	"ai-blueprint-be/internal/repository/memory"
	"ai-blueprint-be/internal/websocket"
	"ai-blueprint-be/pkg/events"
	"ai-blueprint-be/pkg/flow/executor"
	"ai-blueprint-be/pkg/flow/history"
	"ai-blueprint-be/pkg/gateway"
	"ai-blueprint-be/pkg/llm"
	"ai-blueprint-be/pkg/nats"
	"ai-blueprint-be/pkg/store"
	"ai-blueprint-be/pkg/telemetry"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound signals an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionReset signals that the session was reset while a turn
	// was in flight, so the turn's result was discarded.
	ErrSessionReset = errors.New("session was reset while the turn was in flight")

	// ErrBlueprintNotReady signals that no blueprint has been
	// synthesized for the session yet.
	ErrBlueprintNotReady = errors.New("blueprint not ready")
)

type ISessionService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	GetSessionState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateDTO, error)
	GetBlueprint(ctx context.Context, sessionId uuid.UUID) (string, error)
	ResetSession(ctx context.Context, sessionId uuid.UUID) (*dto.ResetSessionResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
}

type sessionService struct {
	sessionRepo    *memory.SessionRepository
	turnExecutor   *executor.TurnExecutor
	historyLoader  *history.Loader
	telemetry      *telemetry.Publisher
	eventPublisher *nats.Publisher
	streamHub      *websocket.Hub
	llmLogger      *log.Logger

	// turnLocks serializes turns per session; stateLocks guards the
	// short load/fence/save windows so a reset can land while a
	// provider call is still in flight.
	turnLocks  sync.Map
	stateLocks sync.Map
}

func NewSessionService(
	llmProvider llm.LLMProvider,
	reasoningEffort string,
	sessionRepo *memory.SessionRepository,
	telemetryPublisher *telemetry.Publisher,
	eventPublisher *nats.Publisher,
	streamHub *websocket.Hub,
) ISessionService {
	llmLogger := initLLMLogger()

	gw := gateway.NewGateway(llmProvider, reasoningEffort, llmLogger)

	return &sessionService{
		sessionRepo:    sessionRepo,
		turnExecutor:   executor.NewTurnExecutor(gw, llmLogger),
		historyLoader:  history.NewLoader(10),
		telemetry:      telemetryPublisher,
		eventPublisher: eventPublisher,
		streamHub:      streamHub,
		llmLogger:      llmLogger,
	}
}

// initLLMLogger creates a dedicated logger for the turn pipeline that
// writes to logs/llm_flow.log
func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_flow.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Failed to open LLM log file, falling back to stdout: %v", err)
		return log.New(os.Stdout, "[LLM-FLOW] ", log.LstdFlags)
	}

	return log.New(file, "", log.LstdFlags|log.Lmicroseconds)
}

func (s *sessionService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	// 1. Seed a fresh session in DISCOVERY
	sessionId := uuid.New()
	session := store.NewSession(sessionId.String())
	s.sessionRepo.Save(session)

	s.llmLogger.Printf("[SESSION] Created session %s", session.ID)

	// 2. Emit SESSION_CREATED Event
	if s.eventPublisher != nil {
		evt := events.NewSessionEvent(events.TypeSessionCreated, session.ID, nil)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_CREATED event: %v\n", err)
		}
	}

	return &dto.CreateSessionResponse{
		Id:        sessionId,
		Greeting:  constant.SessionGreetingV1,
		State:     sessionStateDTO(session),
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *sessionService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId := request.ChatSessionId.String()

	// 1. One turn at a time per session
	turnLock := s.lockFor(&s.turnLocks, sessionId)
	turnLock.Lock()
	defer turnLock.Unlock()

	// 2. Snapshot the session and work on a clone so nothing is
	// visible until the whole turn succeeds
	stateLock := s.lockFor(&s.stateLocks, sessionId)

	stateLock.Lock()
	session, found := s.sessionRepo.Get(sessionId)
	if !found {
		stateLock.Unlock()
		return nil, ErrSessionNotFound
	}
	work := session.Clone()
	previousMode := work.Mode
	turnHistory := s.historyLoader.Load(work)
	stateLock.Unlock()

	sentTurn := work.Append(constant.ChatMessageRoleUser, request.Chat)

	// 3. Run the turn pipeline. A provider failure surfaces here with
	// the stored session untouched.
	result, err := s.turnExecutor.Execute(ctx, work, request.Chat, turnHistory)
	if err != nil {
		return nil, err
	}

	replyTurn := work.Append(constant.ChatMessageRoleAssistant, result.AssistantMessage)

	// 4. Fence against resets: if the epoch moved while the provider
	// was thinking, the clone belongs to a dead generation
	stateLock.Lock()
	current, stillThere := s.sessionRepo.Get(sessionId)
	if !stillThere {
		stateLock.Unlock()
		return nil, ErrSessionNotFound
	}
	if current.Epoch != work.Epoch {
		stateLock.Unlock()
		s.llmLogger.Printf("[SESSION] Discarding stale turn for session %s (epoch %d -> %d)",
			sessionId, work.Epoch, current.Epoch)
		return nil, ErrSessionReset
	}
	s.sessionRepo.Save(work)
	// Captured under the lock: once saved, a reset may mutate work in place.
	stateView := sessionStateDTO(work)
	finalMode := work.Mode
	blueprintReady := work.BlueprintMarkdown != ""
	stateLock.Unlock()

	// 5. Record both turns on the telemetry bus (best-effort)
	s.telemetry.Record(sessionId, constant.ChatMessageRoleUser, request.Chat)
	s.telemetry.Record(sessionId, constant.ChatMessageRoleAssistant, result.AssistantMessage)

	// 6. Push live updates to attached stream clients
	reply := &dto.SendChatResponseChat{
		Id:        replyTurn.ID,
		Chat:      replyTurn.Text,
		Role:      replyTurn.Role,
		CreatedAt: replyTurn.CreatedAt,
	}
	if s.streamHub != nil {
		s.streamHub.Send(sessionId, "turn", reply)
		s.streamHub.Send(sessionId, "state", stateView)
		if result.Document != nil {
			s.streamHub.Send(sessionId, "blueprint", dto.BlueprintEventDTO{
				ChatSessionId: request.ChatSessionId,
				Issues:        len(result.Document.Check.Issues),
				Unavailable:   result.Document.Check.Unavailable,
				GeneratedAt:   time.Now().UTC(),
			})
		}
	}

	// 7. Emit lifecycle events
	if s.eventPublisher != nil {
		if result.ModeAdvanced {
			evt := events.NewSessionEvent(events.TypeModeAdvanced, sessionId, map[string]interface{}{
				"from": previousMode,
				"to":   finalMode,
			})
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				fmt.Printf("[WARN] Failed to publish MODE_ADVANCED event: %v\n", err)
			}
		}
		if result.ModeRejected {
			evt := events.NewSessionEvent(events.TypeModeRejected, sessionId, map[string]interface{}{
				"mode": finalMode,
			})
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				fmt.Printf("[WARN] Failed to publish MODE_REJECTED event: %v\n", err)
			}
		}
		if result.Document != nil {
			evt := events.NewSessionEvent(events.TypeBlueprintReady, sessionId, map[string]interface{}{
				"issues":      len(result.Document.Check.Issues),
				"unavailable": result.Document.Check.Unavailable,
			})
			if err := s.eventPublisher.Publish(ctx, evt); err != nil {
				fmt.Printf("[WARN] Failed to publish BLUEPRINT_READY event: %v\n", err)
			}
		}
	}

	return &dto.SendChatResponse{
		ChatSessionId: request.ChatSessionId,
		Sent: &dto.SendChatResponseChat{
			Id:        sentTurn.ID,
			Chat:      sentTurn.Text,
			Role:      sentTurn.Role,
			CreatedAt: sentTurn.CreatedAt,
		},
		Reply:          reply,
		State:          stateView,
		ModeAdvanced:   result.ModeAdvanced,
		ModeRejected:   result.ModeRejected,
		BlueprintReady: blueprintReady,
	}, nil
}

func (s *sessionService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	// Reads share the state lock with reset, which mutates in place.
	stateLock := s.lockFor(&s.stateLocks, sessionId.String())
	stateLock.Lock()
	session, found := s.sessionRepo.Get(sessionId.String())
	if !found {
		stateLock.Unlock()
		return nil, ErrSessionNotFound
	}
	turns := session.AllTurns()
	stateLock.Unlock()

	response := make([]*dto.GetChatHistoryResponse, 0, len(turns))
	for _, turn := range turns {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        turn.ID,
			Role:      turn.Role,
			Chat:      turn.Text,
			CreatedAt: turn.CreatedAt,
		})
	}

	return response, nil
}

func (s *sessionService) GetSessionState(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateDTO, error) {
	stateLock := s.lockFor(&s.stateLocks, sessionId.String())
	stateLock.Lock()
	defer stateLock.Unlock()

	session, found := s.sessionRepo.Get(sessionId.String())
	if !found {
		return nil, ErrSessionNotFound
	}

	state := sessionStateDTO(session)
	return &state, nil
}

func (s *sessionService) GetBlueprint(ctx context.Context, sessionId uuid.UUID) (string, error) {
	stateLock := s.lockFor(&s.stateLocks, sessionId.String())
	stateLock.Lock()
	defer stateLock.Unlock()

	session, found := s.sessionRepo.Get(sessionId.String())
	if !found {
		return "", ErrSessionNotFound
	}
	if session.BlueprintMarkdown == "" {
		return "", ErrBlueprintNotReady
	}

	return session.BlueprintMarkdown, nil
}

func (s *sessionService) ResetSession(ctx context.Context, sessionId uuid.UUID) (*dto.ResetSessionResponse, error) {
	// Intentionally skips the turn lock: a reset must win over an
	// in-flight turn, which the epoch fence then discards.
	stateLock := s.lockFor(&s.stateLocks, sessionId.String())
	stateLock.Lock()

	session, found := s.sessionRepo.Get(sessionId.String())
	if !found {
		stateLock.Unlock()
		return nil, ErrSessionNotFound
	}

	session.Reset()
	s.sessionRepo.Save(session)
	stateView := sessionStateDTO(session)
	epoch := session.Epoch
	stateLock.Unlock()

	s.llmLogger.Printf("[SESSION] Reset session %s (epoch %d)", sessionId, epoch)

	if s.streamHub != nil {
		s.streamHub.Send(sessionId.String(), "state", stateView)
	}

	if s.eventPublisher != nil {
		evt := events.NewSessionEvent(events.TypeSessionReset, sessionId.String(), map[string]interface{}{
			"epoch": epoch,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_RESET event: %v\n", err)
		}
	}

	return &dto.ResetSessionResponse{
		Id:    sessionId,
		State: stateView,
	}, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	id := sessionId.String()

	stateLock := s.lockFor(&s.stateLocks, id)
	stateLock.Lock()
	if _, found := s.sessionRepo.Get(id); !found {
		stateLock.Unlock()
		return ErrSessionNotFound
	}
	s.sessionRepo.Delete(id)
	stateLock.Unlock()

	s.turnLocks.Delete(id)
	s.stateLocks.Delete(id)

	s.llmLogger.Printf("[SESSION] Deleted session %s", id)
	return nil
}

func (s *sessionService) lockFor(locks *sync.Map, sessionId string) *sync.Mutex {
	actual, _ := locks.LoadOrStore(sessionId, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func sessionStateDTO(session *store.Session) dto.SessionStateDTO {
	return dto.SessionStateDTO{
		Mode:             session.Mode,
		ConvergenceReady: session.ConvergenceReady,
		Confidence:       session.Confidence,
		DirectionThesis:  session.DirectionThesis,
		NextUserPrompt:   session.NextUserPrompt,
	}
}
