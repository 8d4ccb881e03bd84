package middleware

import (
	"slices"
	"strings"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth.
const (
	ActorKey      = "actor"
	PrivilegesKey = "privileges"
)

func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// RequireAuth accepts a bearer token only while it carries the operator's
// current token version, so a newer login ends older sessions.
func RequireAuth(signer *jwt.Signer, users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return deny(c, fiber.StatusUnauthorized, "Missing authorization token")
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			return deny(c, fiber.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := signer.ValidateToken(token)
		if err != nil {
			return deny(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		switch {
		case err != nil:
			return deny(c, fiber.StatusUnauthorized, "User not found")
		case !user.IsActive:
			return deny(c, fiber.StatusUnauthorized, "User account is inactive")
		case user.TokenVersion != claims.TokenVersion:
			return deny(c, fiber.StatusUnauthorized, "Session expired (logged in on another device)")
		}

		c.Locals(ActorKey, model.Actor{ID: claims.UserID, Name: claims.Name, Email: claims.Email})
		c.Locals(PrivilegesKey, claims.Privileges)
		return c.Next()
	}
}

// CurrentActor returns the operator set by RequireAuth, or model.System.
func CurrentActor(c *fiber.Ctx) model.Actor {
	if actor, ok := c.Locals(ActorKey).(model.Actor); ok {
		return actor
	}
	return model.System
}

func RequirePrivilege(code string) fiber.Handler {
	return RequireAnyPrivilege(code)
}

// RequireAnyPrivilege passes when the token grants at least one of codes.
func RequireAnyPrivilege(codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		granted, ok := c.Locals(PrivilegesKey).([]string)
		if !ok {
			return deny(c, fiber.StatusForbidden, "No privileges found")
		}
		for _, code := range codes {
			if slices.Contains(granted, code) {
				return c.Next()
			}
		}
		return deny(c, fiber.StatusForbidden, "Forbidden: requires one of "+strings.Join(codes, ", ")+" privileges")
	}
}
