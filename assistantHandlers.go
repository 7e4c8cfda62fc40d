package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/interpreter"
	"github.com/campusworks/assets_backend/utils"
)

const (
	confirmTokenTTL  = 5 * time.Minute
	chatHistoryLen   = 50
	chatHistoryTTL   = 7 * 24 * time.Hour
	chatHistoryLimit = 1000 // per-entry message cap, characters
)

var (
	assistantOnce sync.Once
	assistant     *interpreter.Interpreter
)

// getAssistant builds the shared instruction pipeline. The store resolves the
// DB per call, so constructing this before the DB is connected is fine.
func getAssistant() *interpreter.Interpreter {
	assistantOnce.Do(func() {
		assistant = interpreter.New(interpreter.NewGormStore(), config.GetLLM(), config.GetLogger())
	})
	return assistant
}

type assistantRequest struct {
	Instruction  string `json:"instruction"`
	ConfirmToken string `json:"confirm_token"`
}

type assistantResponse struct {
	Status       interpreter.Status     `json:"status"`
	Message      string                 `json:"message"`
	Retryable    bool                   `json:"retryable,omitempty"`
	ConfirmToken string                 `json:"confirm_token,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

type chatHistoryEntry struct {
	Instruction string    `json:"instruction"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

func assistantHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		username, ok := utils.GetUsernameFromContext(ctx)
		if !ok || username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		role, err := sessionRole(ctx)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req assistantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		it := getAssistant()
		ctx, span := tracer.Start(ctx, "assistant.instruction")
		defer span.End()

		var result *interpreter.Result
		if req.ConfirmToken != "" {
			draft, found, err := popConfirmDraft(req.ConfirmToken, username)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "confirmation store unavailable"})
				return
			}
			if !found {
				c.JSON(http.StatusOK, assistantResponse{
					Status:  interpreter.StatusError,
					Message: "That confirmation has expired or was already used. Please repeat the instruction.",
				})
				return
			}
			result = it.ExecuteDraft(ctx, draft, role)
		} else {
			result = it.HandleInstruction(ctx, req.Instruction, role)
		}

		resp := assistantResponse{
			Status:    result.Status,
			Message:   result.Message,
			Retryable: result.Retryable,
			Data:      result.Data,
		}
		if result.Status == interpreter.StatusConfirm && result.Draft != nil {
			token, err := stashConfirmDraft(username, result.Draft)
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "confirmation store unavailable"})
				return
			}
			resp.ConfirmToken = token
		}

		appendChatHistory(username, req.Instruction, result)
		c.JSON(http.StatusOK, resp)
	}
}

// confirmEnvelope binds a parked draft to the user it was issued to, so one
// session cannot replay another session's confirmation token.
type confirmEnvelope struct {
	Username string             `json:"username"`
	Draft    *interpreter.Draft `json:"draft"`
}

func (e confirmEnvelope) belongsTo(username string) bool {
	return e.Username != "" && e.Username == username && e.Draft != nil
}

// stashConfirmDraft parks a destructive draft in Redis until the user
// confirms or the window lapses. One token, one use.
func stashConfirmDraft(username string, draft *interpreter.Draft) (string, error) {
	token := uuid.NewString()
	envelope := confirmEnvelope{Username: username, Draft: draft}
	if err := config.SetRedisObject("Confirm:"+token, envelope, confirmTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// popConfirmDraft consumes a confirmation token. GETDEL keeps the token
// single-use even when two confirms race; a token issued to another user
// reads as not found.
func popConfirmDraft(token string, username string) (*interpreter.Draft, bool, error) {
	var envelope confirmEnvelope
	found, err := config.GetDelRedisObject("Confirm:"+token, &envelope)
	if err != nil || !found {
		return nil, false, err
	}
	if !envelope.belongsTo(username) {
		return nil, false, nil
	}
	return envelope.Draft, true, nil
}

func appendChatHistory(username, instruction string, result *interpreter.Result) {
	message := result.Message
	if len(message) > chatHistoryLimit {
		message = message[:chatHistoryLimit]
	}
	entry := chatHistoryEntry{
		Instruction: instruction,
		Message:     message,
		Status:      string(result.Status),
		At:          time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	// History is best-effort; the reply already went to the user.
	_ = config.PushRedisList("Chat:"+username, string(data), chatHistoryLen, chatHistoryTTL)
}

func assistantHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := utils.GetUsernameFromContext(c.Request.Context())
		if !ok || username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		raw, err := config.GetRedisList("Chat:" + username)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
			return
		}
		entries := make([]chatHistoryEntry, 0, len(raw))
		for _, item := range raw {
			var entry chatHistoryEntry
			if err := json.Unmarshal([]byte(item), &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
		c.JSON(http.StatusOK, gin.H{"history": entries})
	}
}
