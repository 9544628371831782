package handlers

import (
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/arzan03/BloodBridge/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateRequest stores a new donation request as pending.
func (h *Handler) CreateRequest(c *fiber.Ctx) error {
	fields, ok := parseBody(c)
	if !ok {
		return invalidBody(c)
	}

	result, err := h.Requests.Create(c.UserContext(), fields)
	if err != nil {
		return h.storeError(c, "create request", err)
	}
	return c.JSON(result)
}

// GetRequest returns one request, or null when the id matches nothing.
func (h *Handler) GetRequest(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	req, err := h.Requests.FindByID(c.UserContext(), id)
	if err != nil {
		return h.storeError(c, "find request", err)
	}
	return c.JSON(req)
}

// UpdateRequest merges the body into the request named by the path id.
func (h *Handler) UpdateRequest(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	fields, ok := parseBody(c)
	if !ok {
		return invalidBody(c)
	}

	result, err := h.Requests.UpdateByID(c.UserContext(), id, fields)
	if err != nil {
		return h.storeError(c, "update request", err)
	}
	return c.JSON(result)
}

// UpdateDonationStatus sets donation_status from the status query parameter.
// Nothing else on the request changes.
func (h *Handler) UpdateDonationStatus(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	result, err := h.Requests.SetDonationStatus(c.UserContext(), id, c.Query("status"))
	if err != nil {
		return h.storeError(c, "update donation status", err)
	}
	return c.JSON(result)
}

// UpdateStatusByEmail sets the status field of the request filed by the
// email query parameter.
func (h *Handler) UpdateStatusByEmail(c *fiber.Ctx) error {
	result, err := h.Requests.SetStatusByEmail(c.UserContext(), c.Query("email"), c.Query("status"))
	if err != nil {
		return h.storeError(c, "update status", err)
	}
	return c.JSON(result)
}

func (h *Handler) DeleteRequest(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	result, err := h.Requests.DeleteByID(c.UserContext(), id)
	if err != nil {
		return h.storeError(c, "delete request", err)
	}
	return c.JSON(result)
}

// SearchRequests lists pending requests, optionally narrowed by district,
// upazilla and blood group.
func (h *Handler) SearchRequests(c *fiber.Ctx) error {
	found, err := h.Requests.Search(c.UserContext(), services.SearchParams{
		District:   c.Query("district"),
		Upazilla:   c.Query("upazilla"),
		BloodGroup: c.Query("bloodgrp"),
	})
	if err != nil {
		return h.storeError(c, "search requests", err)
	}
	return c.JSON(found)
}

// MyRequests pages through the requests the caller filed.
func (h *Handler) MyRequests(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	return h.page(c, bson.M{models.RequestEmail: p.Email})
}

// AllRequests pages through every request.
func (h *Handler) AllRequests(c *fiber.Ctx) error {
	return h.page(c, bson.M{})
}

func (h *Handler) page(c *fiber.Ctx, filter bson.M) error {
	page := services.NewPage(
		c.QueryInt("size", services.DefaultPageSize),
		c.QueryInt("page", services.DefaultPageNumber),
	)

	result, err := h.Requests.Page(c.UserContext(), filter, page)
	if err != nil {
		return h.storeError(c, "list requests", err)
	}
	return c.JSON(result)
}
