package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// CreateUser stores a sign-up profile as a pending donor.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	profile, ok := parseBody(c)
	if !ok {
		return invalidBody(c)
	}

	result, err := h.Users.Create(c.UserContext(), profile)
	if err != nil {
		return h.storeError(c, "create user", err)
	}
	return c.JSON(result)
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return h.storeError(c, "list users", err)
	}
	return c.JSON(users)
}

// GetOwnProfile returns the caller's user document, or null.
func (h *Handler) GetOwnProfile(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.Users.FindByEmail(c.UserContext(), p.Email)
	if err != nil {
		return h.storeError(c, "find user", err)
	}
	return c.JSON(user)
}

// UpdateOwnProfile merges the body into the caller's user document.
func (h *Handler) UpdateOwnProfile(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	fields, ok := parseBody(c)
	if !ok {
		return invalidBody(c)
	}

	result, err := h.Users.UpdateByEmail(c.UserContext(), p.Email, fields)
	if err != nil {
		return h.storeError(c, "update user", err)
	}
	return c.JSON(result)
}

// GetUserByEmail is public; the client reads the role from the result.
func (h *Handler) GetUserByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}

	user, err := h.Users.FindByEmail(c.UserContext(), email)
	if err != nil {
		return h.storeError(c, "find user", err)
	}
	return c.JSON(user)
}
