package config

import (
	"os"
	"strings"
)

// AssistantLLMEnabled gates the Gemini-backed extraction/answering path.
// When false the assistant runs fully deterministic.
//
// Set via env:
// - ASSISTANT_LLM_ENABLED=true (requires GEMINI_API_KEY)
func AssistantLLMEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ASSISTANT_LLM_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// AuditPublishEnabled gates Pub/Sub publishing of assistant audit events.
// Audit rows are always written; only the async publish is optional.
//
// Set via env:
// - AUDIT_PUBLISH_ENABLED=true (requires PUBSUB_PROJECT_ID)
func AuditPublishEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("AUDIT_PUBLISH_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
