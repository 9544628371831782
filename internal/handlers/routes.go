package handlers

import (
	"github.com/arzan03/BloodBridge/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// Route binds one method and path to a handler and the capabilities a
// caller must prove before it runs.
type Route struct {
	Method   string
	Path     string
	Requires []middleware.Capability
	Handler  fiber.Handler
}

var (
	public   []middleware.Capability
	verified = []middleware.Capability{middleware.Verified}
	admin    = []middleware.Capability{middleware.Verified, middleware.Admin}
)

// Routes is the complete HTTP surface.
func (h *Handler) Routes() []Route {
	routes := []Route{
		{fiber.MethodGet, "/", public, h.Root},
		{fiber.MethodGet, "/healthz", public, h.Healthz},

		{fiber.MethodPost, "/users", public, h.CreateUser},
		{fiber.MethodGet, "/users", verified, h.ListUsers},
		{fiber.MethodGet, "/users/data", verified, h.GetOwnProfile},
		{fiber.MethodPut, "/users/data", verified, h.UpdateOwnProfile},
		{fiber.MethodGet, "/users/role/:email", public, h.GetUserByEmail},

		{fiber.MethodPost, "/request", verified, h.CreateRequest},
		{fiber.MethodGet, "/request-details/:id", verified, h.GetRequest},
		// Older clients read the edit form from this path.
		{fiber.MethodGet, "/update-request-details/:id", verified, h.GetRequest},
		{fiber.MethodPut, "/update-request-details/:id", public, h.UpdateRequest},
		{fiber.MethodPatch, "/request-details/:id", verified, h.UpdateDonationStatus},
		{fiber.MethodDelete, "/request/delete/:id", admin, h.DeleteRequest},
		{fiber.MethodGet, "/search-request", public, h.SearchRequests},
		{fiber.MethodGet, "/my-request", verified, h.MyRequests},
		{fiber.MethodGet, "/all-request", admin, h.AllRequests},
		{fiber.MethodPatch, "/update/user/status", verified, h.UpdateStatusByEmail},
	}

	if h.Files != nil {
		routes = append(routes,
			Route{fiber.MethodPost, "/request/:id/attachment", verified, h.UploadAttachment},
			Route{fiber.MethodGet, "/request/:id/attachment", verified, h.GetAttachmentURL},
		)
	}
	return routes
}

// Register mounts every route on app behind its gate.
func Register(app fiber.Router, h *Handler, deps middleware.GateDeps) {
	for _, r := range h.Routes() {
		chain := append(middleware.Gate(deps, r.Requires...), r.Handler)
		app.Add(r.Method, r.Path, chain...)
	}
}
