package messages

import (
	"database/sql"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SendMessageRequest is the body for sending a message to another user.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Subject     string `json:"subject" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

// SendMessageAPI stores a message for a user in the same tenant.
func SendMessageAPI(c *fiber.Ctx, db *sql.DB) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}

	claims := auth.Claims(c)
	msg := &models.Message{
		TenantID:    claims.TenantID,
		SenderID:    claims.UserID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Body:        req.Body,
	}
	if err := database.SendMessage(db, msg); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Recipient not found")
		}
		logrus.WithError(err).Error("failed to send message")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to send message")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
		"message": "Message sent",
	})
}

// ListRecipientsAPI returns the tenant's users a message can be addressed
// to, optionally limited to one role.
func ListRecipientsAPI(c *fiber.Ctx, db *sql.DB) error {
	users, err := database.ListTenantUsers(db, auth.TenantID(c), c.Query("role"))
	if err != nil {
		logrus.WithError(err).Error("failed to list recipients")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch recipients")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// InboxAPI returns the caller's received messages.
func InboxAPI(c *fiber.Ctx, db *sql.DB) error {
	claims := auth.Claims(c)
	unreadOnly := c.Query("unread") == "true"

	msgs, err := database.GetInbox(db, claims.TenantID, claims.UserID, unreadOnly)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch messages")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msgs,
	})
}

// MarkReadAPI stamps one of the caller's messages as read.
func MarkReadAPI(c *fiber.Ctx, db *sql.DB) error {
	claims := auth.Claims(c)
	err := database.MarkMessageRead(db, claims.TenantID, claims.UserID, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Message not found or already read")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to mark message read")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message marked read",
	})
}
