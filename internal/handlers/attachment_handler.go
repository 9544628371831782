package handlers

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadAttachment stores the multipart "file" field and records it on the
// request. Only the member who filed the request may attach to it.
func (h *Handler) UploadAttachment(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to retrieve file"})
	}

	req, err := h.Requests.FindByID(c.UserContext(), id)
	if err != nil {
		return h.storeError(c, "find request", err)
	}
	if req == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "request not found"})
	}
	if owner, _ := req[models.RequestEmail].(string); owner != p.Email {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden access"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	filename := filepath.Base(fileHeader.Filename)
	att := models.Attachment{
		Object:      fmt.Sprintf("%s/%s_%s", id.Hex(), uuid.NewString(), filename),
		Filename:    filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		UploadedAt:  time.Now().UTC(),
	}

	if err := h.Files.Put(c.UserContext(), att.Object, file, att.Size, att.ContentType); err != nil {
		h.Logger.Error().Err(err).Str("object", att.Object).Msg("attachment upload failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload file to storage"})
	}

	if _, err := h.Requests.SetAttachment(c.UserContext(), id, att); err != nil {
		return h.storeError(c, "save attachment", err)
	}

	return c.JSON(fiber.Map{
		"message":    "File uploaded successfully",
		"attachment": att,
	})
}

// GetAttachmentURL returns a short lived download link for the request's file.
func (h *Handler) GetAttachmentURL(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	req, err := h.Requests.FindByID(c.UserContext(), id)
	if err != nil {
		return h.storeError(c, "find request", err)
	}
	object := attachmentObject(req)
	if object == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no attachment"})
	}

	link, err := h.Files.PresignedGet(c.UserContext(), object, h.URLExpiry)
	if err != nil {
		h.Logger.Error().Err(err).Str("object", object).Msg("presign failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate download link"})
	}

	return c.JSON(fiber.Map{
		"url":        link,
		"expires_in": h.URLExpiry.String(),
	})
}

// attachmentObject reads the object name from a decoded request document,
// where the embedded attachment arrives as a generic document.
func attachmentObject(req models.Request) string {
	switch att := req[models.RequestAttachment].(type) {
	case bson.M:
		object, _ := att["object"].(string)
		return object
	case map[string]interface{}:
		object, _ := att["object"].(string)
		return object
	case bson.D:
		for _, e := range att {
			if e.Key == "object" {
				object, _ := e.Value.(string)
				return object
			}
		}
		return ""
	case models.Attachment:
		return att.Object
	default:
		return ""
	}
}
