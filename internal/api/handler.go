// Package api is the sandbox pharmacy backend: the REST contract the POS
// client speaks, served from a local sqlite store.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"pharmapos/internal/session"
)

type ctxKey string

const (
	ctxUserID   ctxKey = "userID"
	ctxUsername ctxKey = "username"
	ctxRole     ctxKey = "role"
)

const (
	sessionCookie = "session"
	sessionTTL    = 12 * time.Hour
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db      *sqlx.DB
	secret  string
	limiter *loginLimiter
	now     func() time.Time
}

// New constructs a Handler. loginPerMinute caps login attempts per client
// address.
func New(db *sqlx.DB, secret string, loginPerMinute int) *Handler {
	return &Handler{
		db:      db,
		secret:  secret,
		limiter: newLoginLimiter(loginPerMinute),
		now:     time.Now,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/logout", h.logout)
		r.Get("/check_session", h.checkSession)

		r.Group(func(pr chi.Router) {
			pr.Use(h.authMiddleware)

			pr.Post("/register", h.register)
			pr.Get("/summary", h.summary)
			pr.Get("/dashboard-stats", h.dashboardStats)

			pr.Route("/medicines", func(r chi.Router) {
				r.Get("/", h.listMedicines)
				r.Post("/add", h.addMedicine)
				r.Put("/{id}", h.updateMedicine)
				r.Delete("/{id}", h.deleteMedicine)
			})

			pr.Route("/sales", func(r chi.Router) {
				r.Get("/", h.listSales)
				r.Post("/create", h.createSale)
				r.Get("/{id}", h.saleDetails)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Message: "ok"})
}

// Authentication helpers

// sessionToken returns the token from the session cookie or, failing that,
// the bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func (h *Handler) claims(r *http.Request) (*session.Claims, bool) {
	token := sessionToken(r)
	if token == "" {
		return nil, false
	}
	claims, err := session.VerifyToken(h.secret, token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.claims(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxUsername, claims.Username)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role, _ := r.Context().Value(ctxRole).(string)
	for _, allowedRole := range allowed {
		if role == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "Forbidden")
	return false
}

// Helpers

// envelope is the body of every API response.
type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	LoggedIn *bool  `json:"logged_in,omitempty"`
	ID       int64  `json:"id,omitempty"`
	SaleID   int64  `json:"sale_id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	Token    string `json:"token,omitempty"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: false, Message: message})
}
