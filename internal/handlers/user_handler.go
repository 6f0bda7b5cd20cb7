package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles, avatars and subscriptions.
type UserHandler struct {
	users    *services.UserService
	subs     *services.SubscriptionService
	auth     *services.AuthService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, subs *services.SubscriptionService, auth *services.AuthService) *UserHandler {
	return &UserHandler{users: users, subs: subs, auth: auth, validate: newValidator()}
}

// RegisterRoutes registers the user routes. Static paths come before /:id.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	u := router.Group("/users")
	u.Get("/", optionalAuth, h.HandleList)
	u.Get("/me", authRequired, h.HandleMe)
	u.Put("/me/avatar", authRequired, h.HandleSetAvatar)
	u.Delete("/me/avatar", authRequired, h.HandleResetAvatar)
	u.Post("/set_password", authRequired, h.HandleSetPassword)
	u.Get("/subscriptions", authRequired, h.HandleSubscriptions)
	u.Get("/:id", optionalAuth, h.HandleGet)
	u.Post("/:id/subscribe", authRequired, h.HandleSubscribe)
	u.Delete("/:id/subscribe", authRequired, h.HandleUnsubscribe)
}

func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.users.List(c.UserContext(), middleware.UserID(c), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	user, err := h.users.Get(c.UserContext(), userID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "user_not_found")
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleSetAvatar(c *fiber.Ctx) error {
	var req models.AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}
	avatar, err := h.users.SetAvatar(c.UserContext(), middleware.UserID(c), req.Avatar)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": avatar})
}

// HandleResetAvatar restores the default avatar.
func (h *UserHandler) HandleResetAvatar(c *fiber.Ctx) error {
	if err := h.users.ResetAvatar(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetPassword changes the caller's password. Issued tokens stay valid.
func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var req models.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if ok, err := validate(c, h.validate, req); !ok {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions lists the authors the caller follows. recipes_limit
// caps the recipes embedded per author.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	page, err := h.subs.List(c.UserContext(), middleware.UserID(c),
		c.QueryInt("page", 1), c.QueryInt("limit", 0), c.QueryInt("recipes_limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "user_not_found")
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.subs.Subscribe(c.UserContext(), middleware.UserID(c), id, c.QueryInt("recipes_limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	id, err := idParam(c, "id", "user_not_found")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.subs.Unsubscribe(c.UserContext(), middleware.UserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
