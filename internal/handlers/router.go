package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trymedating/trymed/internal/middleware"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Connections *ConnectionHandler
	Messages    *MessageHandler
	Invites     *InviteHandler
	Reports     *ReportHandler
	Push        *PushHandler
	Events      *EventsHandler
	Account     *AccountHandler

	JWTSecret string
	Limiter   *middleware.RateLimiter
}

// NewRouter wires the full HTTP surface.
func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.CORS)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public; anonymous traffic is limited per client IP.
	public := r.PathPrefix("/api").Subrouter()
	public.Use(d.Limiter.Middleware)
	public.HandleFunc("/auth/register", d.Auth.Register).Methods(http.MethodPost, http.MethodOptions)
	public.HandleFunc("/auth/login", d.Auth.Login).Methods(http.MethodPost, http.MethodOptions)
	public.HandleFunc("/users/{handle}", d.Auth.GetProfile).Methods(http.MethodGet, http.MethodOptions)
	// Redeem works for anonymous callers too (deep-linked installs).
	public.HandleFunc("/invites/redeem", d.Invites.Redeem).Methods(http.MethodPost, http.MethodOptions)

	// Database webhook entrypoint, guarded by shared secret instead of a JWT.
	r.Handle("/hooks/push-message", d.Limiter.Middleware(http.HandlerFunc(d.Push.Webhook))).
		Methods(http.MethodPost, http.MethodOptions)

	// Authenticated. The limiter sits after auth so signed-in traffic is
	// billed against the per-user bucket, not the shared IP one.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(d.JWTSecret))
	api.Use(d.Limiter.Middleware)

	api.HandleFunc("/connections/request", d.Connections.Request).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/connections", d.Connections.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/connections/{id:[0-9]+}", d.Connections.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/connections/{id:[0-9]+}/{action:accept|reject|cancel|disconnect|block|unblock}",
		d.Connections.Act).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/connections/{id:[0-9]+}/messages", d.Messages.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/connections/{id:[0-9]+}/messages", d.Messages.Send).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/messages/{id:[0-9]+}/attachment", d.Messages.Download).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/messages/read", d.Messages.MarkRead).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/unread", d.Messages.Unread).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/events", d.Events.Stream).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/invites/mint", d.Invites.Mint).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/reports", d.Reports.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/reports", d.Reports.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/admin/reports/{id:[0-9]+}/status", d.Reports.SetStatus).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/admin/reports/export.csv", d.Reports.ExportCSV).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/admin/reports/export.xlsx", d.Reports.ExportXLSX).Methods(http.MethodGet, http.MethodOptions)

	api.HandleFunc("/push/subscribe", d.Push.Subscribe).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/push/unsubscribe", d.Push.Unsubscribe).Methods(http.MethodPost, http.MethodOptions)

	api.HandleFunc("/account/delete", d.Account.Delete).Methods(http.MethodPost, http.MethodOptions)

	return r
}
