// Package organizer issues the bearer tokens that guard mutating routes.
// Credentials are a single static pair from configuration; there is no user
// database behind this surface.
package organizer

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"rollcall/internal/jwttoken"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

const tokenLifetime = 8 * time.Hour

// Handler exchanges the organizer credential for an access token.
type Handler struct {
	user         string
	passwordHash []byte
	tokens       *jwttoken.Service
	logger       *slog.Logger
}

func New(user, passwordHash string, tokens *jwttoken.Service, logger *slog.Logger) *Handler {
	return &Handler{
		user:         user,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		logger:       logger,
	}
}

// Register mounts the login route.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

// LoginRequest is the HTTP request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "username and password are required")
	}
	return nil
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HandleLogin handles POST /auth/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if h.user == "" || len(h.passwordHash) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "organizer login is not configured"))
		return
	}

	// Compare the hash even on a username mismatch to keep response
	// timing uniform.
	hashErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password))
	if req.Username != h.user || hashErr != nil {
		h.logger.WarnContext(ctx, "organizer login rejected",
			"request_id", requestID,
			"username", req.Username,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		return
	}

	token, err := h.tokens.Generate(req.Username, tokenLifetime)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token"))
		return
	}

	h.logger.InfoContext(ctx, "organizer logged in", "request_id", requestID, "username", req.Username)
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(tokenLifetime.Seconds()),
	})
}
