package api

import (
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"pharmapos/domain"
	"pharmapos/internal/session"
)

// visitorTTL is how long an idle client address keeps its limiter.
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles login attempts per client address.
type loginLimiter struct {
	mu        sync.Mutex
	perMin    int
	visitors  map[string]*visitor
	lastPrune time.Time
	now       func() time.Time
}

func newLoginLimiter(perMin int) *loginLimiter {
	if perMin <= 0 {
		perMin = 20
	}
	return &loginLimiter{perMin: perMin, visitors: make(map[string]*visitor), now: time.Now}
}

func (l *loginLimiter) allow(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastPrune) >= visitorTTL {
		l.prune(now)
	}
	v, ok := l.visitors[host]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.visitors[host] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// prune drops addresses idle for longer than visitorTTL. Callers hold mu.
func (l *loginLimiter) prune(now time.Time) {
	for host, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, host)
		}
	}
	l.lastPrune = now
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.allow(r.RemoteAddr) {
		respondError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user domain.User
	err := h.db.Get(&user, `SELECT id, username, password_hash, role FROM users WHERE username = ?`, strings.TrimSpace(req.Username))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := session.IssueToken(h.secret, user.ID, user.Username, user.Role, sessionTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to start session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL / time.Second),
	})
	respondJSON(w, http.StatusOK, envelope{Success: true, Token: token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respondJSON(w, http.StatusOK, envelope{Success: true})
}

func (h *Handler) checkSession(w http.ResponseWriter, r *http.Request) {
	_, ok := h.claims(r)
	respondJSON(w, http.StatusOK, envelope{Success: true, LoggedIn: &ok})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		respondError(w, http.StatusBadRequest, "Role must be admin or staff")
		return
	}

	var existing int64
	err := h.db.Get(&existing, `SELECT id FROM users WHERE username = ?`, username)
	if err == nil {
		respondError(w, http.StatusConflict, "Username already exists")
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusInternalServerError, "Unable to register user")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to secure password")
		return
	}
	res, err := h.db.Exec(`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`, username, string(hashed), role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to register user")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusCreated, envelope{Success: true, UserID: id})
}
