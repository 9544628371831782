package handlers

import (
	"context"
	"io"
	"time"

	"github.com/arzan03/BloodBridge/internal/auth"
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/arzan03/BloodBridge/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the user collection as the handlers use it.
type UserStore interface {
	Create(ctx context.Context, profile bson.M) (models.InsertResult, error)
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateByEmail(ctx context.Context, email string, fields bson.M) (models.UpdateResult, error)
}

// RequestStore is the donation request collection as the handlers use it.
type RequestStore interface {
	Create(ctx context.Context, fields bson.M) (models.InsertResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Request, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (models.UpdateResult, error)
	SetDonationStatus(ctx context.Context, id primitive.ObjectID, status string) (models.UpdateResult, error)
	SetStatusByEmail(ctx context.Context, email, status string) (models.UpdateResult, error)
	SetAttachment(ctx context.Context, id primitive.ObjectID, att models.Attachment) (models.UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
	Search(ctx context.Context, params services.SearchParams) ([]models.Request, error)
	Page(ctx context.Context, filter bson.M, page services.Page) (models.PageResult, error)
}

// AttachmentStore keeps uploaded files.
type AttachmentStore interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	PresignedGet(ctx context.Context, name string, ttl time.Duration) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves every route. Files may be nil, which leaves the attachment
// routes unregistered.
type Handler struct {
	Users     UserStore
	Requests  RequestStore
	Files     AttachmentStore
	Health    Pinger
	Logger    zerolog.Logger
	URLExpiry time.Duration
}

func (h *Handler) storeError(c *fiber.Ctx, op string, err error) error {
	h.Logger.Error().Err(err).Str("op", op).Str("path", c.Path()).Msg("store operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": op + " failed"})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}

// principal returns the identity the gate attached. Routes using it are
// always registered behind Verified.
func principal(c *fiber.Ctx) (auth.Principal, bool) {
	return auth.PrincipalFrom(c.UserContext())
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized access"})
}

func parseID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	id, err := services.ParseID(c.Params("id"))
	return id, err == nil
}

func parseBody(c *fiber.Ctx) (bson.M, bool) {
	var body bson.M
	if err := c.BodyParser(&body); err != nil || body == nil {
		return nil, false
	}
	return body, true
}
