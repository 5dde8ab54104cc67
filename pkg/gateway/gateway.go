package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-blueprint-be/internal/constant"
	"ai-blueprint-be/pkg/llm"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors. ErrProvider covers transport failures and replies
// that fail schema validation; the caller leaves session state
// untouched and surfaces the failure on that turn only.
var (
	ErrProvider            = errors.New("model provider failure")
	ErrCritiqueUnavailable = errors.New("critique unavailable")
)

// TurnState is the provider-reported conversation state block.
type TurnState struct {
	Mode             string         `json:"mode" validate:"required,oneof=DISCOVERY INTENT_LOCK BUILDER"`
	ConvergenceReady bool           `json:"convergence_ready"`
	Confidence       map[string]int `json:"confidence" validate:"dive,gte=0,lte=100"`
	DirectionThesis  string         `json:"direction_thesis"`
	NextUserPrompt   string         `json:"next_user_prompt"`
}

// TurnReply is one validated conversational exchange.
type TurnReply struct {
	AssistantMessage string    `json:"assistant_message" validate:"required"`
	State            TurnState `json:"state"`
	BlueprintMD      string    `json:"blueprint_md"`

	// ThreadID is the provider continuation token for the next turn.
	// Empty when the provider has no server-side threads.
	ThreadID string `json:"-"`
}

// HasBlueprint reports whether this turn carried blueprint markdown.
func (r *TurnReply) HasBlueprint() bool {
	return strings.TrimSpace(r.BlueprintMD) != ""
}

type critique struct {
	Issues []string `json:"issues"`
}

// ThreadInput carries everything needed to continue one session thread.
type ThreadInput struct {
	ThreadID string        // provider continuation token, empty starts fresh
	History  []llm.Message // prior turns, replayed only when ThreadID is empty
	UserText string
}

// Gateway is the single owner of provider traffic: it assembles
// requests, enforces the reply schema and never retries on its own.
type Gateway struct {
	llmProvider llm.LLMProvider
	effort      string
	logger      *log.Logger
	validate    *validator.Validate
}

func NewGateway(llmProvider llm.LLMProvider, effort string, logger *log.Logger) *Gateway {
	return &Gateway{
		llmProvider: llmProvider,
		effort:      effort,
		logger:      logger,
		validate:    validator.New(),
	}
}

// Continue advances the conversation by one user turn. With a thread id
// the provider resumes its server-side thread and only the new input is
// sent; otherwise the prior history rides along. Any transport or
// schema failure comes back wrapped in ErrProvider.
func (g *Gateway) Continue(ctx context.Context, in ThreadInput) (*TurnReply, error) {
	// 1. Assemble messages. System instructions always ride along so a
	// provider that drops thread state still behaves.
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.SystemInstructionsV1},
	}

	var opts []llm.Option
	if g.effort != "" {
		opts = append(opts, llm.WithEffort(g.effort))
	}
	if in.ThreadID != "" {
		opts = append(opts, llm.WithThread(in.ThreadID))
	} else {
		messages = append(messages, in.History...)
	}
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleUser, Content: in.UserText})

	// 2. Single attempt, no retry
	reply, err := g.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		g.logger.Printf("[ERROR] Turn call failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	// 3. Parse and validate the structured reply
	parsed, err := g.parseReply(reply.Text)
	if err != nil {
		g.logger.Printf("[ERROR] Turn reply rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	parsed.ThreadID = reply.ThreadID

	g.logger.Printf("[GATEWAY] Turn resolved: mode=%s convergence=%t blueprint=%t",
		parsed.State.Mode, parsed.State.ConvergenceReady, parsed.HasBlueprint())

	return parsed, nil
}

// Critique runs the contradiction scan over a finished blueprint and
// returns concrete issues in the order the model listed them. Failures
// come back as ErrCritiqueUnavailable; callers degrade to an
// empty-issues outcome instead of blocking delivery.
func (g *Gateway) Critique(ctx context.Context, blueprintMD string) ([]string, error) {
	messages := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ContradictionScanInstructionsV1},
		{Role: constant.ChatMessageRoleUser, Content: blueprintMD},
	}

	opts := []llm.Option{}
	if g.effort != "" {
		opts = append(opts, llm.WithEffort(g.effort))
	}

	reply, err := g.llmProvider.Chat(ctx, messages, opts...)
	if err != nil {
		g.logger.Printf("[WARN] Contradiction scan failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCritiqueUnavailable, err)
	}

	jsonContent := extractJSON(reply.Text)
	if jsonContent == "" {
		g.logger.Printf("[WARN] Contradiction scan returned no JSON")
		return nil, fmt.Errorf("%w: no JSON found in response", ErrCritiqueUnavailable)
	}

	var c critique
	if err := json.Unmarshal([]byte(jsonContent), &c); err != nil {
		g.logger.Printf("[WARN] Contradiction scan parse failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCritiqueUnavailable, err)
	}

	if c.Issues == nil {
		c.Issues = []string{}
	}
	g.logger.Printf("[GATEWAY] Contradiction scan found %d issue(s)", len(c.Issues))
	return c.Issues, nil
}

func (g *Gateway) parseReply(response string) (*TurnReply, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var parsed TurnReply
	if err := json.Unmarshal([]byte(jsonContent), &parsed); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// Normalize before validation
	parsed.State.Mode = strings.ToUpper(strings.TrimSpace(parsed.State.Mode))
	if parsed.State.Confidence == nil {
		parsed.State.Confidence = map[string]int{}
	}

	if err := g.validate.Struct(&parsed); err != nil {
		return nil, fmt.Errorf("reply schema invalid: %w", err)
	}

	return &parsed, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
