package backend

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/products", h.getProducts)
	app.Get("/products/pages", h.getPageCount)
	app.Get("/products/:id<int>", h.getProduct)
	app.Get("/categories", h.getCategories)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	page := 0
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).SendString("page must be a non-negative integer")
		}
		page = n
	}
	return c.JSON(h.catalog.Page(page))
}

func (h *Handler) getPageCount(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"pages": h.catalog.PageCount()})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	p, err := h.catalog.Get(id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Categories())
}
