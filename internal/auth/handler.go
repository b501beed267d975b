package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	throttle  func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: httpx.NewValidator(),
	}
}

// WithThrottle limits the credential endpoints with mw. Logout stays
// unthrottled.
func (h *Handler) WithThrottle(mw func(http.Handler) http.Handler) *Handler {
	h.throttle = mw
	return h
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.throttle != nil {
			r.Use(h.throttle)
		}
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.Post("/verify", h.handleVerify)
	})
	r.Post("/logout", h.handleLogout)
}

type signupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	UserType  string `json:"userType" validate:"required,oneof=farmer buyer"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// UserView is the public JSON shape of an account.
type UserView struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	UserType  shared.Role `json:"userType"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

type sessionResponse struct {
	Message   string    `json:"message"`
	User      UserView  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	session, err := h.service.Signup(r.Context(), SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		UserType:  shared.Role(req.UserType),
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.Error(w, http.StatusConflict, "email_already_registered")
			return
		}
		h.logger.Error("signup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	created := session.User.CreatedAt
	view := toUserView(session.User)
	view.CreatedAt = &created
	httpx.JSON(w, http.StatusCreated, sessionResponse{
		Message:   "User created successfully",
		User:      view,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) && !errors.Is(err, shared.ErrAccountDeactivated) {
			h.logger.Error("login", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{
		Message:   "Login successful",
		User:      toUserView(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Token == "" {
		httpx.Error(w, http.StatusBadRequest, "token_required")
		return
	}
	principal, err := h.service.VerifyToken(r.Context(), req.Token)
	if err != nil {
		var failure *shared.Failure
		if !errors.As(err, &failure) {
			h.logger.Error("verify token", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": principal})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := BearerToken(r.Header.Get("Authorization")); ok {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Warn("logout revoke", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func toUserView(u *User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
	}
}
