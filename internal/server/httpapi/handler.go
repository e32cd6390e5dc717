package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/auth"
	"github.com/eurisssow03/wc-helper-sub001/internal/server/users"
)

const (
	pingTimeout  = 2 * time.Second
	maxLoginBody = 1 << 16
)

// UserService performs the credential check behind POST /api/auth/login.
type UserService interface {
	Login(ctx context.Context, username, password string) (*users.LoginResult, error)
}

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users     UserService
	db        Pinger
	jwtSecret []byte
	log       logging.Logger
}

func NewHandler(us UserService, db Pinger, secretKey string, log logging.Logger) *Handler {
	return &Handler{users: us, db: db, jwtSecret: []byte(secretKey), log: log.With("module", "httpapi")}
}

type response struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Token   string        `json:"token,omitempty"`
	User    *userResponse `json:"user,omitempty"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Health reports database connectivity. The admin client treats the word
// "connected" in a successful message as the backend being up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warn(ctx, "database ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, response{Success: false, Message: "Database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Database connected"})
}

// Login checks credentials and returns a signed token with the user's
// identity. Wrong credentials are 401, disabled accounts 403, anything else
// that fails server-side is 500.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, response{Message: "Username and password are required"})
		return
	}

	res, err := h.users.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, response{Message: "Invalid username or password"})
		return
	case errors.Is(err, users.ErrInactive):
		writeJSON(w, http.StatusForbidden, response{Message: "Account is disabled"})
		return
	default:
		h.log.Error(r.Context(), "login failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Message: "Internal error"})
		return
	}

	h.log.Info(r.Context(), "user logged in", "username", res.User.UserName)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Token:   res.Token,
		User:    &userResponse{ID: res.User.ID, Username: res.User.UserName, Role: res.User.Role},
	})
}

// Verify returns the identity carried by a Bearer token.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		writeJSON(w, http.StatusUnauthorized, response{Message: "missing token"})
		return
	}

	claims, err := auth.ParseToken(token, h.jwtSecret)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, common.ErrTokenExpired) {
			msg = "token expired"
		}
		writeJSON(w, http.StatusUnauthorized, response{Message: msg})
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Token valid",
		User:    &userResponse{ID: claims.Subject, Username: claims.Username, Role: claims.Role},
	})
}
