package openai

import (
	"ai-blueprint-be/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type OpenAIProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure OpenAIProvider implements LLMProvider
var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(baseURL, apiKey, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Responses API, internal to this package) ---

type openaiRequest struct {
	Model              string           `json:"model"`
	Input              []openaiMessage  `json:"input"`
	Instructions       string           `json:"instructions,omitempty"`
	PreviousResponseID string           `json:"previous_response_id,omitempty"`
	Reasoning          *openaiReasoning `json:"reasoning,omitempty"`
	Temperature        float64          `json:"temperature,omitempty"`
	MaxOutputTokens    int              `json:"max_output_tokens,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiReasoning struct {
	Effort string `json:"effort"`
}

type openaiResponse struct {
	ID     string             `json:"id"`
	Status string             `json:"status"`
	Error  *openaiError       `json:"error"`
	Output []openaiOutputItem `json:"output"`
}

type openaiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type openaiOutputItem struct {
	Type    string              `json:"type"`
	Role    string              `json:"role"`
	Content []openaiContentPart `json:"content"`
}

type openaiContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// --- Interface Implementation ---

// Chat calls the Responses API. Reply.ThreadID carries the response id,
// so the next turn can continue the server-side thread with WithThread
// instead of resending the transcript.
func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (llm.Reply, error) {
	// 1. Process Options
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := openaiRequest{
		Model:       model,
		Temperature: options.Temperature,
	}
	if options.Effort != "" {
		reqPayload.Reasoning = &openaiReasoning{Effort: options.Effort}
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxOutputTokens = options.MaxTokens
	}

	// 2. Map messages. When continuing a thread the system content moves
	// to the instructions field and only new input is sent.
	for _, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		if options.ThreadID != "" && role == "system" {
			reqPayload.Instructions = msg.Content
			continue
		}
		reqPayload.Input = append(reqPayload.Input, openaiMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	if options.ThreadID != "" {
		reqPayload.PreviousResponseID = options.ThreadID
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	// 3. Send Request
	url := o.BaseURL + "/v1/responses"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return llm.Reply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return llm.Reply{}, fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	// 4. Parse Response
	var openaiResp openaiResponse
	if err := json.Unmarshal(bodyBytes, &openaiResp); err != nil {
		return llm.Reply{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if openaiResp.Error != nil {
		return llm.Reply{}, fmt.Errorf("openai error: %s (%s)", openaiResp.Error.Message, openaiResp.Error.Code)
	}

	// 5. Collect output text across message items
	var sb strings.Builder
	for _, item := range openaiResp.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}

	return llm.Reply{Text: sb.String(), ThreadID: openaiResp.ID}, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (llm.Reply, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
