package handlers

import (
	"fmt"
	"strings"

	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes, their relation toggles,
// the shopping list download and short links.
type RecipeHandler struct {
	recipes    *services.RecipeService
	relations  *services.RelationService
	shopping   *services.ShoppingListService
	shortLinks *services.ShortLinkService
	validate   *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(
	recipes *services.RecipeService,
	relations *services.RelationService,
	shopping *services.ShoppingListService,
	shortLinks *services.ShortLinkService,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:    recipes,
		relations:  relations,
		shopping:   shopping,
		shortLinks: shortLinks,
		validate:   newValidator(),
	}
}

// RegisterRoutes registers the recipe routes. Static paths come before /:id.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	r := router.Group("/recipes")
	r.Get("/", optionalAuth, h.HandleList)
	r.Post("/", authRequired, h.HandleCreate)
	r.Get("/download_shopping_cart", authRequired, h.HandleDownloadShoppingCart)
	r.Get("/:id", optionalAuth, h.HandleGet)
	r.Patch("/:id", authRequired, h.HandleUpdate)
	r.Delete("/:id", authRequired, h.HandleDelete)
	r.Get("/:id/get-link", h.HandleGetLink)
	r.Post("/:id/favorite", authRequired, h.relationAdder(models.RelationFavorite))
	r.Delete("/:id/favorite", authRequired, h.relationRemover(models.RelationFavorite))
	r.Post("/:id/shopping_cart", authRequired, h.relationAdder(models.RelationShoppingCart))
	r.Delete("/:id/shopping_cart", authRequired, h.relationRemover(models.RelationShoppingCart))
}

// RegisterShortLinkRoutes registers the public short link redirect at the site root.
func (h *RecipeHandler) RegisterShortLinkRoutes(router fiber.Router) {
	router.Get("/s/:token", h.HandleRedirect)
}

// HandleList lists recipes with optional tags, author, is_favorited and
// is_in_shopping_cart filters.
func (h *RecipeHandler) HandleList(c *fiber.Ctx) error {
	filter := models.RecipeFilter{
		ViewerID:         middleware.UserID(c),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
		Page:             c.QueryInt("page", 1),
		Limit:            c.QueryInt("limit", 0),
	}
	if author := c.QueryInt("author", 0); author > 0 {
		filter.AuthorID = uint(author)
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.TagSlugs = append(filter.TagSlugs, string(slug))
	}

	page, err := h.recipes.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// HandleCreate creates a recipe authored by the caller.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.RecipeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	recipe, err := h.recipes.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

func (h *RecipeHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "recipe_not_found")
	if err != nil {
		return respondError(c, err)
	}
	recipe, err := h.recipes.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// HandleUpdate applies a partial update. Supplied ingredient or tag lists
// replace the existing ones.
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "recipe_not_found")
	if err != nil {
		return respondError(c, err)
	}
	var req models.RecipeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}

	recipe, err := h.recipes.Update(c.UserContext(), middleware.UserID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "recipe_not_found")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.recipes.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetLink returns the full short URL of a recipe.
func (h *RecipeHandler) HandleGetLink(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "recipe_not_found")
	if err != nil {
		return respondError(c, err)
	}
	link, err := h.shortLinks.Link(c.UserContext(), id, c.BaseURL())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"short-link": link})
}

// HandleRedirect resolves a short link token to the recipe page.
func (h *RecipeHandler) HandleRedirect(c *fiber.Ctx) error {
	id, err := h.shortLinks.Resolve(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/recipes/%d/", id), fiber.StatusMovedPermanently)
}

// HandleDownloadShoppingCart serves the aggregated shopping list as a text attachment.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	filename, body, err := h.shopping.Download(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachmentDisposition(filename))
	return c.SendString(body)
}

func (h *RecipeHandler) relationAdder(kind models.RelationKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id", "recipe_not_found")
		if err != nil {
			return respondError(c, err)
		}
		summary, err := h.relations.Add(c.UserContext(), middleware.UserID(c), id, kind)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(summary)
	}
}

func (h *RecipeHandler) relationRemover(kind models.RelationKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id", "recipe_not_found")
		if err != nil {
			return respondError(c, err)
		}
		if err := h.relations.Remove(c.UserContext(), middleware.UserID(c), id, kind); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// attachmentDisposition renders an RFC 6266 header: an ASCII filename for old
// clients plus the exact UTF-8 name in filename*.
func attachmentDisposition(filename string) string {
	var ascii, encoded strings.Builder
	for _, r := range filename {
		switch {
		case r == '"' || r == '\\' || r < 0x20 || r > 0x7e:
			ascii.WriteByte('_')
		default:
			ascii.WriteRune(r)
		}
	}
	for _, b := range []byte(filename) {
		if isAttrChar(b) {
			encoded.WriteByte(b)
		} else {
			fmt.Fprintf(&encoded, "%%%02X", b)
		}
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii.String(), encoded.String())
}

// isAttrChar reports whether b may appear unescaped in an RFC 5987 value.
func isAttrChar(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}
