package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/internal/services"
	"github.com/trymedating/trymed/pkg/errors"
)

type PushHandler struct {
	push          *services.PushService
	webhookSecret string
}

func NewPushHandler(push *services.PushService, webhookSecret string) *PushHandler {
	return &PushHandler{
		push:          push,
		webhookSecret: webhookSecret,
	}
}

// Subscribe registers the caller's browser push endpoint.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		Endpoint string `json:"endpoint"`
		P256dh   string `json:"p256dh"`
		Auth     string `json:"auth"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.push.Subscribe(userID, req.Endpoint, req.P256dh, req.Auth); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// Unsubscribe removes an endpoint.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.push.Unsubscribe(userID, req.Endpoint); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// pushWebhookPayload tolerates the historical webhook shapes: the database
// webhook wraps fields under "record", direct callers send them flat in
// either camelCase or snake_case.
type pushWebhookPayload struct {
	Record struct {
		Recipient uint   `json:"recipient"`
		Sender    uint   `json:"sender"`
		Body      string `json:"body"`
	} `json:"record"`
	RecipientID    uint   `json:"recipientId"`
	RecipientSnake uint   `json:"recipient_id"`
	SenderID       uint   `json:"senderId"`
	SenderSnake    uint   `json:"sender_id"`
	Body           string `json:"body"`
}

func (p *pushWebhookPayload) normalize() (recipient, sender uint, body string) {
	recipient = p.Record.Recipient
	if recipient == 0 {
		recipient = p.RecipientID
	}
	if recipient == 0 {
		recipient = p.RecipientSnake
	}

	sender = p.Record.Sender
	if sender == 0 {
		sender = p.SenderID
	}
	if sender == 0 {
		sender = p.SenderSnake
	}

	body = p.Record.Body
	if body == "" {
		body = p.Body
	}
	if body == "" {
		body = "New message"
	}
	return recipient, sender, body
}

// Webhook fans a push notification out for an externally recorded message.
// Protected by the shared X-TMD-Secret header when configured.
func (h *PushHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" && r.Header.Get("X-TMD-Secret") != h.webhookSecret {
		respondError(w, errors.New(errors.ErrCodeUnauthorized, "bad webhook secret"))
		return
	}

	var payload pushWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "invalid payload"))
		return
	}

	recipient, sender, body := payload.normalize()
	if recipient == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "missing recipient"))
		return
	}
	body = security.Truncate(body, 120)

	sent, dead, err := h.push.Send(recipient, services.PushPayload{
		Title: "New message",
		Body:  body,
		URL:   "/connections",
		Tag:   tagForSender(sender),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"sent": sent,
		"dead": dead,
	})
}

func tagForSender(sender uint) string {
	if sender == 0 {
		return "msg:unknown"
	}
	return "msg:" + strconv.FormatUint(uint64(sender), 10)
}
