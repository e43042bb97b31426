package auth

import (
	"strings"

	"zawadi-schools/app/models"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the public and session endpoints.
func SetupAuthRoutes(app *fiber.App) {
	group := app.Group("/auth")

	group.Get("/login", ShowLoginPage)
	group.Post("/login", LoginAPI)
	group.Post("/logout", LogoutAPI)

	group.Use(Middleware)
	group.Get("/profile", ProfileAPI)
	group.Post("/change-password", ChangePasswordAPI)
}

// ShowLoginPage renders the login form, skipping it for valid sessions.
func ShowLoginPage(c *fiber.Ctx) error {
	if tokenString := c.Cookies("jwt_token"); tokenString != "" {
		if _, err := ValidateJWT(tokenString); err == nil {
			return c.Redirect("/dashboard")
		}
	}
	return c.Render("auth/login", fiber.Map{
		"Title": "Login - Zawadi Schools",
	}, "")
}

// Middleware validates the JWT from cookie or Authorization header and puts
// the tenant, user and roles into locals. Handlers read these once and pass
// them down explicitly; nothing below the middleware touches ambient state.
func Middleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("jwt_token")
	if tokenString == "" {
		header := c.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}

	isAPIRequest := strings.HasPrefix(c.Path(), "/api/")
	if tokenString == "" {
		if isAPIRequest {
			return fiber.NewError(fiber.StatusUnauthorized, "No token found")
		}
		return c.Redirect("/auth/login")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		if isAPIRequest {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		return c.Redirect("/auth/login")
	}

	c.Locals("claims", claims)
	c.Locals("tenant_id", claims.TenantID)
	c.Locals("user_id", claims.UserID)
	return c.Next()
}

// RequireRole gates a route group to users carrying one of the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*JWTClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Insufficient permissions")
	}
}

// RequireAdmin is the guard used by all financial mutations.
var RequireAdmin = RequireRole(models.RoleAdmin)

// Claims extracts the validated claims set by Middleware.
func Claims(c *fiber.Ctx) *JWTClaims {
	claims, _ := c.Locals("claims").(*JWTClaims)
	return claims
}

// TenantID extracts the caller's tenant set by Middleware.
func TenantID(c *fiber.Ctx) string {
	id, _ := c.Locals("tenant_id").(string)
	return id
}
