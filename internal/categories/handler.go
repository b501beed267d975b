package categories

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	identify  func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
}

// NewHandler wires category endpoints. identify attaches an optional
// principal so that admin accounts pass admin without the shared key.
func NewHandler(logger *slog.Logger, service *Service, identify, admin func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator(), identify: identify, admin: admin}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(h.identify, h.admin)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list categories failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	category, err := h.service.Create(r.Context(), Input{Name: req.Name, Description: req.Description})
	if err != nil {
		h.fail(w, "create category failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	category, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), Input{Name: req.Name, Description: req.Description})
	if err != nil {
		h.fail(w, "update category failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete category failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrInUse):
		httpx.Error(w, http.StatusConflict, "category_in_use")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, shared.ReasonNotFound)
	default:
		h.logger.Error(msg, "error", err)
		httpx.RespondError(w, err)
	}
}
