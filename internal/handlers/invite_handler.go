package handlers

import (
	"net/http"

	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/services"
)

type InviteHandler struct {
	invites *services.InviteService
}

func NewInviteHandler(invites *services.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

// Mint issues a 5-minute single-use invite token for the caller.
func (h *InviteHandler) Mint(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	token, exp, err := h.invites.Mint(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"exp":   exp,
	})
}

// Redeem spends an invite token. Works for signed-in or anonymous callers;
// the first redemption returns the issuer id, a second one conflicts.
func (h *InviteHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	pid, err := h.invites.Redeem(req.Token)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":  true,
		"pid": pid,
	})
}
