package products

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yene-farm/yene-farm/internal/platform/httpx"
	"github.com/yene-farm/yene-farm/internal/shared"
)

// Guards are the route middlewares the handler composes.
type Guards struct {
	Authenticate func(http.Handler) http.Handler
	Identify     func(http.Handler) http.Handler
	Farmer       func(http.Handler) http.Handler
	Owner        func(http.Handler) http.Handler
}

// Handler exposes listing endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guards    Guards
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guards Guards) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guards: guards, validator: httpx.NewValidator()}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Identify)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Authenticate, h.guards.Farmer)
		r.Get("/mine", h.mine)
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Authenticate, h.guards.Owner)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createRequest struct {
	Title             string  `json:"title" validate:"required,min=1,max=255"`
	Description       string  `json:"description" validate:"max=2000"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	CategoryID        string  `json:"categoryId" validate:"required,uuid"`
	QuantityAvailable int     `json:"quantityAvailable" validate:"min=0"`
	Unit              string  `json:"unit" validate:"max=20"`
}

type updateRequest struct {
	Title             *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description       *string  `json:"description" validate:"omitempty,max=2000"`
	Price             *float64 `json:"price" validate:"omitempty,gt=0"`
	CategoryID        *string  `json:"categoryId" validate:"omitempty,uuid"`
	QuantityAvailable *int     `json:"quantityAvailable" validate:"omitempty,min=0"`
	Unit              *string  `json:"unit" validate:"omitempty,max=20"`
	IsAvailable       *bool    `json:"isAvailable"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), shared.ListLimit(r.URL.Query().Get("limit")))
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	items, err := h.service.Mine(r.Context(), principal.ID, shared.ListLimit(r.URL.Query().Get("limit")))
	if err != nil {
		h.fail(w, "list own products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	product, err := h.service.Create(r.Context(), principal.ID, CreateInput{
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		CategoryID:        req.CategoryID,
		QuantityAvailable: req.QuantityAvailable,
		Unit:              req.Unit,
	})
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"message": "Product created successfully", "product": product})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
		Title:             req.Title,
		Description:       req.Description,
		Price:             req.Price,
		CategoryID:        req.CategoryID,
		QuantityAvailable: req.QuantityAvailable,
		Unit:              req.Unit,
		IsAvailable:       req.IsAvailable,
	})
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Product updated successfully", "product": product})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNoFields):
		httpx.Error(w, http.StatusBadRequest, "no_fields_to_update")
	case errors.Is(err, ErrUnknownCategory):
		httpx.Error(w, http.StatusBadRequest, "unknown_category")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, shared.ReasonNotFound)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
