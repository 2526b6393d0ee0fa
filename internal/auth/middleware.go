package auth

import (
	"fmt"
	"strings"

	"cafepos-backend/internal/config"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxBranchIDKey = "branch_id"
	CtxUserKey     = "user"
)

// Every rejection uses the same message on purpose: the response must not
// reveal whether a token was missing, malformed, expired or revoked.
const msgUnauthorized = "Authentication required"

// JWTMiddleware verifies the bearer token and re-resolves its subject
// against the users table, so tokens of deleted accounts stop working
// before they expire.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		c.Locals(CtxUserIDKey, user.ID)
		c.Locals(CtxUserRoleKey, user.Role)
		c.Locals(CtxBranchIDKey, user.BranchID)
		c.Locals(CtxUserKey, &user)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}

// CurrentUser returns the user resolved by JWTMiddleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(CtxUserKey).(*models.User)
	if !ok || user == nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "User information missing")
	}
	return user, nil
}
