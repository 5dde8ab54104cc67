package factory

import (
	"ai-blueprint-be/internal/config"
	"ai-blueprint-be/pkg/llm"
	"ai-blueprint-be/pkg/llm/huggingface"
	"ai-blueprint-be/pkg/llm/ollama"
	"ai-blueprint-be/pkg/llm/openai"
	"fmt"
)

func NewLLMProvider(cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		baseURL := cfg.OpenAIBaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com" // Default
		}
		return openai.NewOpenAIProvider(baseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.OllamaModel), nil
	case "huggingface":
		if cfg.HuggingFaceAPIKey == "" {
			return nil, fmt.Errorf("huggingface provider requires HUGGINGFACE_API_KEY")
		}
		return huggingface.NewHuggingFaceProvider(cfg.HuggingFaceAPIKey, cfg.HuggingFaceBaseURL, cfg.HuggingFaceModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
