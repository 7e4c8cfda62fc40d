package config

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// AuditMessage is the wire shape published for assistant-driven mutations.
type AuditMessage struct {
	ID            int       `json:"id"`
	Action        string    `json:"action"`
	Actor         string    `json:"actor"`
	Instruction   string    `json:"instruction"`
	Filter        []byte    `json:"filter"`
	Fields        []byte    `json:"fields"`
	MatchedCount  int64     `json:"matched_count"`
	ModifiedCount int64     `json:"modified_count"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationId string    `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

// AuditTopicID is the Pub/Sub topic audit events are published to.
func AuditTopicID() string {
	if v := os.Getenv("AUDIT_TOPIC_ID"); v != "" {
		return v
	}
	return "assets-audit-events"
}

// GetPubSubClient returns a Pub/Sub client, initializing it on first use.
// Uses Application Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var opts []option.ClientOption
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	pubsubClient = client
	log.Printf("pubsub client initialized (project=%s)", projectID)
	return pubsubClient, nil
}
