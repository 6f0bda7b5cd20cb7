package handlers

import (
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the read-only tag and ingredient catalogs.
type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tags", h.HandleTags)
	router.Get("/tags/:id", h.HandleTag)
	router.Get("/ingredients", h.HandleIngredients)
	router.Get("/ingredients/:id", h.HandleIngredient)
}

func (h *CatalogHandler) HandleTags(c *fiber.Ctx) error {
	tags, err := h.catalog.Tags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

func (h *CatalogHandler) HandleTag(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "tag_not_found")
	if err != nil {
		return respondError(c, err)
	}
	tag, err := h.catalog.Tag(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

// HandleIngredients supports ?name=<prefix> search.
func (h *CatalogHandler) HandleIngredients(c *fiber.Ctx) error {
	items, err := h.catalog.Ingredients(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CatalogHandler) HandleIngredient(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "ingredient_not_found")
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.catalog.Ingredient(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
