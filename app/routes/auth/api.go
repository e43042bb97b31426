package auth

import (
	"database/sql"
	"time"

	"zawadi-schools/app/config"
	"zawadi-schools/app/database"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoginAPI authenticates a user and sets the session cookie.
func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		TenantSlug string `json:"tenant_slug" form:"tenant_slug"`
		Email      string `json:"email" form:"email"`
		Password   string `json:"password" form:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if req.TenantSlug == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "School, email and password are required")
	}

	db := config.GetDB()
	user, err := database.GetUserByEmail(db, req.TenantSlug, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		logrus.WithError(err).Error("login lookup failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Database error")
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	roles, err := database.GetUserRoles(db, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get user roles")
	}
	user.Roles = roles

	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = role.Name
	}

	token, err := GenerateJWT(user.ID, user.TenantID, user.Email, user.FirstName, user.LastName, roleNames)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(config.Get().SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "tenant_id": user.TenantID}).Info("user logged in")
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// LogoutAPI clears the session cookie.
func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/auth/login")
}

// ProfileAPI returns the caller's account details.
func ProfileAPI(c *fiber.Ctx) error {
	claims := Claims(c)
	user, err := database.GetUserByID(config.GetDB(), claims.TenantID, claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	user.Roles, _ = database.GetUserRoles(config.GetDB(), user.ID)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    user,
	})
}

// ChangePasswordAPI rotates the caller's password.
func ChangePasswordAPI(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if len(req.NewPassword) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 8 characters")
	}

	claims := Claims(c)
	cfg := config.Get()
	err := database.ChangeUserPassword(config.GetDB(), claims.TenantID, claims.UserID, req.CurrentPassword, req.NewPassword, cfg.BcryptCost)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}
