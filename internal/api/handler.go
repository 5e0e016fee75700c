// Package api exposes the admin REST surface: CRUD plus list endpoints for
// clients, events, payments and documents, session auth, and the cash-flow
// report.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"festops/internal/docstore"
	"festops/internal/service"
	"festops/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "festops_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "festops_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// SessionCookie is the name of the login cookie.
const SessionCookie = "festops_session"

type Handler struct {
	store      store.Store
	docs       docstore.Store
	billing    *service.BillingService
	sessionTTL time.Duration
}

func NewHandler(s store.Store, docs docstore.Store, billing *service.BillingService, sessionTTL time.Duration) *Handler {
	return &Handler{store: s, docs: docs, billing: billing, sessionTTL: sessionTTL}
}

// Routes registers every endpoint under /api/v1 on r. /health and /metrics
// stay at the root and are wired by the caller.
func (h *Handler) Routes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.metricsMiddleware)

	api.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")

	authed := api.PathPrefix("/").Subrouter()
	authed.Use(h.sessionMiddleware)

	authed.HandleFunc("/auth/logout", h.LogoutHandler).Methods("POST")
	authed.HandleFunc("/auth/me", h.MeHandler).Methods("GET")

	authed.HandleFunc("/clients", h.CreateClientHandler).Methods("POST")
	authed.HandleFunc("/clients", h.ListClientsHandler).Methods("GET")
	authed.HandleFunc("/clients/{id}", h.GetClientHandler).Methods("GET")
	authed.HandleFunc("/clients/{id}", h.UpdateClientHandler).Methods("PUT", "PATCH")
	authed.HandleFunc("/clients/{id}", h.DeleteClientHandler).Methods("DELETE")

	authed.HandleFunc("/events", h.CreateEventHandler).Methods("POST")
	authed.HandleFunc("/events", h.ListEventsHandler).Methods("GET")
	authed.HandleFunc("/events/{id}", h.GetEventHandler).Methods("GET")
	authed.HandleFunc("/events/{id}", h.UpdateEventHandler).Methods("PUT", "PATCH")
	authed.HandleFunc("/events/{id}", h.DeleteEventHandler).Methods("DELETE")

	authed.HandleFunc("/payments", h.CreatePaymentHandler).Methods("POST")
	authed.HandleFunc("/payments", h.ListPaymentsHandler).Methods("GET")
	authed.HandleFunc("/payments/{id}", h.GetPaymentHandler).Methods("GET")
	authed.HandleFunc("/payments/{id}", h.UpdatePaymentHandler).Methods("PUT", "PATCH")
	authed.HandleFunc("/payments/{id}", h.DeletePaymentHandler).Methods("DELETE")

	authed.HandleFunc("/documents", h.UploadDocumentHandler).Methods("POST")
	authed.HandleFunc("/documents", h.ListDocumentsHandler).Methods("GET")
	authed.HandleFunc("/documents/{id}", h.GetDocumentHandler).Methods("GET")
	authed.HandleFunc("/documents/{id}/content", h.DocumentContentHandler).Methods("GET")
	authed.HandleFunc("/documents/{id}", h.DeleteDocumentHandler).Methods("DELETE")

	authed.HandleFunc("/reports/cashflow", h.CashFlowHandler).Methods("GET")
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// metricsMiddleware observes latency and counts responses per mux route
// template, so /clients/{id} is one series regardless of the id.
func (h *Handler) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(r.Method, endpoint))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		timer.ObserveDuration()

		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type ctxKey int

const ctxUserID ctxKey = 1

// sessionMiddleware resolves the login cookie into a user id, rejecting the
// request when the session is missing, unknown or expired.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		sess, err := h.store.GetSession(r.Context(), cookie.Value)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Session invalid or expired")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id stored by sessionMiddleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

// decodeJSON reads the request body into v, rejecting malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

// respondStoreError maps store sentinels onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrClientHasEvents):
		respondWithError(w, http.StatusConflict, "Client still has events")
	case errors.Is(err, store.ErrEventHasPayments):
		respondWithError(w, http.StatusConflict, "Event still has payments")
	case errors.Is(err, store.ErrEmailTaken):
		respondWithError(w, http.StatusUnprocessableEntity, "Email already registered")
	default:
		log.Printf("store error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
