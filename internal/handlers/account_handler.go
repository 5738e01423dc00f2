package handlers

import (
	"net/http"

	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/services"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Delete permanently removes the caller's account and everything it owns.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	if err := h.accounts.Delete(userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
