// Package api exposes the ledger over REST/JSON.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/spender-app/spender/internal/assistant"
	"github.com/spender-app/spender/internal/auth"
	"github.com/spender-app/spender/internal/middleware"
	"github.com/spender-app/spender/internal/models"
	"github.com/spender-app/spender/internal/notify"
	"github.com/spender-app/spender/internal/service"
	"github.com/spender-app/spender/internal/storage"
)

// API holds the HTTP routes and their dependencies.
type API struct {
	router        *mux.Router
	ledger        *service.LedgerService
	groups        *service.GroupService
	store         storage.Store
	authenticator *auth.PasswordAuthenticator
	tokens        *auth.JWTManager
	notifier      notify.Notifier
	assistant     *assistant.Assistant
}

// New wires the handlers to their services and registers all routes.
func New(
	ledger *service.LedgerService,
	groups *service.GroupService,
	store storage.Store,
	authenticator *auth.PasswordAuthenticator,
	tokens *auth.JWTManager,
	notifier notify.Notifier,
	chat *assistant.Assistant,
) *API {
	a := &API{
		router:        mux.NewRouter(),
		ledger:        ledger,
		groups:        groups,
		store:         store,
		authenticator: authenticator,
		tokens:        tokens,
		notifier:      notifier,
		assistant:     chat,
	}
	a.setupRoutes()
	return a
}

// Router returns the configured handler.
func (a *API) Router() http.Handler {
	return a.router
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/", a.handleStatus).Methods("GET")
	a.router.HandleFunc("/api/health", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", middleware.MetricsHandler()).Methods("GET")

	// Auth
	a.router.HandleFunc("/api/auth/signup", a.handleSignup).Methods("POST")
	a.router.HandleFunc("/api/auth/login", a.handleLogin).Methods("POST")
	a.router.HandleFunc("/api/auth/forgot-password", a.handleForgotPassword).Methods("POST")
	a.router.HandleFunc("/api/auth/reset-password", a.handleResetPassword).Methods("POST")

	// People
	a.router.HandleFunc("/api/people", a.handleListPeople).Methods("GET")
	a.router.HandleFunc("/api/people", a.handleAddPerson).Methods("POST")
	a.router.HandleFunc("/api/people/{id}", a.handleDeletePerson).Methods("DELETE")

	// Expenses and balances
	a.router.HandleFunc("/api/expenses", a.handleListExpenses).Methods("GET")
	a.router.HandleFunc("/api/expenses", a.handleAddExpense).Methods("POST")
	a.router.HandleFunc("/api/expenses/{id}", a.handleDeleteExpense).Methods("DELETE")
	a.router.HandleFunc("/api/balances", a.handleBalances).Methods("GET")
	a.router.HandleFunc("/api/balances/simplified", a.handleSimplifiedBalances).Methods("GET")
	a.router.HandleFunc("/api/settle", a.handleSettle).Methods("POST")

	// Groups
	a.router.HandleFunc("/api/groups", a.handleListGroups).Methods("GET")
	a.router.HandleFunc("/api/groups", a.handleCreateGroup).Methods("POST")
	a.router.HandleFunc("/api/groups/{groupId}/expense", a.handleAddGroupExpense).Methods("POST")
	a.router.HandleFunc("/api/groups/{id}", a.handleDeleteGroup).Methods("DELETE")

	// Notifications
	a.router.HandleFunc("/api/send-reminder", a.handleSendReminder).Methods("POST")
	a.router.HandleFunc("/api/notify-expense", a.handleNotifyExpense).Methods("POST")

	// Assistant and receipts
	a.router.HandleFunc("/api/assistant/chat", a.handleAssistantChat).Methods("POST")
	a.router.HandleFunc("/api/receipts/parse", a.handleParseReceipt).Methods("POST")

	// Profile requires a session
	protected := a.router.PathPrefix("/api/profile").Subrouter()
	protected.Use(middleware.RequireAuth(a.tokens, func(w http.ResponseWriter, err error) {
		writeError(w, http.StatusUnauthorized, err.Error())
	}))
	protected.HandleFunc("", a.handleGetProfile).Methods("GET")
	protected.HandleFunc("", a.handleSaveProfile).Methods("POST")
}

func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "Spender API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Spender API is healthy",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps storage sentinels to HTTP status codes.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrDuplicate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrPersonInUse):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// personRef is a request field that names a person either by numeric id or by
// name. Names create implicit person records when first seen.
type personRef struct {
	id   models.PersonID
	name string
}

func (p *personRef) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		p.id = models.PersonID(id)
		return nil
	}
	return json.Unmarshal(data, &p.name)
}

// resolve returns the PersonID for the reference.
func (a *API) resolve(r *http.Request, ref personRef) (models.PersonID, error) {
	if ref.name == "" {
		return ref.id, nil
	}
	person, err := a.ledger.ResolvePerson(r.Context(), ref.name)
	if err != nil {
		return 0, err
	}
	return person.ID, nil
}
