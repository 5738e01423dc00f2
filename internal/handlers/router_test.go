package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/trymedating/trymed/internal/events"
	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/internal/services"
)

const routerTestSecret = "router_test_secret_key_32_chars_ab"

// newTestRouter builds the wired router with just enough live dependencies
// to exercise the middleware chain: a real invite service (mint touches no
// storage) and a real event bus.
func newTestRouter(t *testing.T, userMax, ipMax int) *mux.Router {
	t.Helper()

	invites := services.NewInviteService(nil, nil, "invite_secret_for_router_tests")

	return NewRouter(RouterDeps{
		Auth:        NewAuthHandler(nil),
		Connections: NewConnectionHandler(nil, invites),
		Messages:    NewMessageHandler(nil),
		Invites:     NewInviteHandler(invites),
		Reports:     NewReportHandler(nil),
		Push:        NewPushHandler(nil, ""),
		Events:      NewEventsHandler(events.NewBus()),
		Account:     NewAccountHandler(nil),
		JWTSecret:   routerTestSecret,
		Limiter:     middleware.NewRateLimiter(userMax, ipMax, time.Minute),
	})
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := security.GenerateJWT(1, "jason", routerTestSecret)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func TestRouter_AuthenticatedRequestsUsePerUserBudget(t *testing.T) {
	// A tiny IP budget with a generous user budget: if signed-in traffic
	// were billed to the IP bucket, the second request would 429.
	router := newTestRouter(t, 1000, 1)
	token := bearerToken(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/invites/mint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRouter_AnonymousRequestsUsePerIPBudget(t *testing.T) {
	router := newTestRouter(t, 1000, 1)

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/invites/redeem",
			strings.NewReader(`{"token":""}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusBadRequest {
		t.Fatalf("first anonymous status = %d, want 400 (empty token)", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("second anonymous status = %d, want 429", code)
	}
}

func TestRouter_AuthRunsBeforeLimiter(t *testing.T) {
	router := newTestRouter(t, 1000, 1000)

	req := httptest.NewRequest(http.MethodPost, "/api/invites/mint", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
}

func TestRouter_EventsPreflight(t *testing.T) {
	router := newTestRouter(t, 1000, 1000)

	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight response missing CORS headers")
	}
}
