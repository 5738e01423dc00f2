package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/services"
	"github.com/trymedating/trymed/pkg/errors"
)

type MessageHandler struct {
	chat *services.ChatService
}

func NewMessageHandler(chat *services.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// List returns the message history of a connection.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	connID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	msgs, err := h.chat.List(connID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

// Send accepts either a JSON text body or a multipart attachment upload.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	connID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.sendAttachment(w, r, connID, userID)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	msg, err := h.chat.SendText(connID, userID, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) sendAttachment(w http.ResponseWriter, r *http.Request, connID, userID uint) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, errors.New(errors.ErrCodeValidation, "missing file field"))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	msg, err := h.chat.SendAttachment(connID, userID, header.Filename, mimeType, header.Size, file)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Download streams a stored attachment to a participant.
func (h *MessageHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	msgID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	rc, msg, err := h.chat.OpenAttachment(msgID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", msg.FileType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+msg.FileName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		// response already started; nothing useful to send
		return
	}
}

// MarkRead stamps the caller's unread messages on a connection.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req struct {
		ConnectionID uint `json:"connection_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.ConnectionID == 0 {
		respondError(w, errors.New(errors.ErrCodeValidation, "missing connection_id"))
		return
	}

	if err := h.chat.MarkRead(req.ConnectionID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Unread returns the caller's total unread count.
func (h *MessageHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	count, err := h.chat.UnreadCount(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "invalid id")
	}
	return uint(id), nil
}
