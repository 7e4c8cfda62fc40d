package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campusworks/assets_backend/llm"
)

var (
	llmClient llm.Client
	llmOnce   sync.Once
)

// GetLLM returns the shared language-service client, or nil when the
// assistant runs deterministic-only (no key, or flag off).
func GetLLM() llm.Client {
	llmOnce.Do(func() {
		if !AssistantLLMEnabled() {
			return
		}
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			log.Printf("ASSISTANT_LLM_ENABLED is set but GEMINI_API_KEY is empty; assistant runs deterministic-only")
			return
		}
		cfg := llm.DefaultConfig(apiKey)
		if m := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); m != "" {
			cfg.Model = m
		}
		if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECONDS")); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.Timeout = time.Duration(n) * time.Second
			}
		}
		client, err := llm.NewGeminiClient(cfg)
		if err != nil {
			log.Printf("failed to create gemini client: %v; assistant runs deterministic-only", err)
			return
		}
		llmClient = client
	})
	return llmClient
}
