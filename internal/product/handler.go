package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// batch fetch by explicit ids only; catalog listing/search is not served here
	app.Get("/api/products", h.getProductsByIDs)
	app.Get("/api/products/:id", h.getProduct)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID format."})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

// getProductsByIDs serves cart display: the client keeps cart state locally
// and asks for the referenced products in one round trip (?ids=1,2,3).
func (h *Handler) getProductsByIDs(c *fiber.Ctx) error {
	raw := c.Query("ids")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "ids query parameter is required"})
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "ids must be positive integers"})
		}
		ids = append(ids, id)
	}

	products, err := h.service.ListByIDs(c.UserContext(), ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}
