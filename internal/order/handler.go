package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/refurbmart/refurb-store-backend/internal/identity"
)

// Handler exposes checkout and order lookup over HTTP. Both routes are
// public: checkout works for guests, and a valid bearer token (when present)
// links the order to that user.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/orders", h.createOrder)
	app.Get("/api/orders/:id", h.getOrder)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(CreateOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	draft, err := AssembleDraft(*payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if uid := identity.UserIDFromCtx(c); uid > 0 {
		draft.UserID = &uid
	}

	view, err := h.service.PlaceOrder(c.UserContext(), draft)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid order ID format."})
	}

	view, err := h.service.GetOrder(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(view)
}

func statusForError(err error) int {
	var (
		verr ValidationError
		nerr NotFoundError
		serr InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.As(err, &nerr):
		return fiber.StatusNotFound
	case errors.As(err, &serr):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
