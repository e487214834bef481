package http

import (
	"github.com/gofiber/fiber/v2"

	"cv-builder/internal/domain"
	"cv-builder/internal/usecase"
)

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	return c.JSON(h.app.Users(c.Query("q")))
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req usecase.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	user, err := h.app.UpdateUser(c.UserContext(), param(c, "email"), req)
	if err != nil {
		return err
	}
	if user.IsBanned() {
		h.editors.CloseOwnedBy(user.Email)
	}
	return c.JSON(user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	email := param(c, "email")
	if email == currentUser(c).Email {
		return domain.NewValidationError("email", "use account deletion to remove yourself")
	}
	if err := h.app.DeleteUser(c.UserContext(), email); err != nil {
		return err
	}
	h.editors.CloseOwnedBy(email)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ToggleBan(c *fiber.Ctx) error {
	user, err := h.app.ToggleBan(c.UserContext(), currentUser(c).Email, param(c, "email"))
	if err != nil {
		return err
	}
	if user.IsBanned() {
		h.editors.CloseOwnedBy(user.Email)
	}
	return c.JSON(user)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.app.Stats())
}

func (h *Handler) ListBanners(c *fiber.Ctx) error {
	banners := h.app.Banners()
	if banners == nil {
		banners = []domain.AdBanner{}
	}
	return c.JSON(banners)
}

func (h *Handler) CreateBanner(c *fiber.Ctx) error {
	var req domain.AdBanner
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	b, err := h.app.CreateBanner(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) UpdateBanner(c *fiber.Ctx) error {
	var req domain.AdBanner
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	b, err := h.app.UpdateBanner(c.UserContext(), param(c, "id"), req)
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) DeleteBanner(c *fiber.Ctx) error {
	if err := h.app.DeleteBanner(c.UserContext(), param(c, "id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
