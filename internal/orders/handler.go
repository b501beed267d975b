package orders

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
	logger      *slog.Logger
	service     *Service
	validator   *validator.Validate
	requireAuth func(http.Handler) http.Handler
}

func NewHandler(logger *slog.Logger, service *Service, requireAuth func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator(), requireAuth: requireAuth}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.requireAuth)
	r.Post("/", h.create)
	r.Get("/{userId}", h.list)
}

type itemRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type orderRequest struct {
	UserID string        `json:"userId" validate:"required,uuid"`
	Items  []itemRequest `json:"items" validate:"required,min=1,dive"`
	Total  float64       `json:"total" validate:"required,gt=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !httpx.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}
	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	order, err := h.service.Place(r.Context(), shared.PrincipalFromContext(r.Context()), req.UserID, items, req.Total)
	if err != nil {
		h.fail(w, "place order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ForUser(r.Context(), shared.PrincipalFromContext(r.Context()), chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, "list orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, shared.ErrForbidden) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
