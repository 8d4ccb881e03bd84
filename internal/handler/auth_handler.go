package handler

import (
	"errors"
	"log/slog"

	"go-bakery-pos/internal/repository"
	"go-bakery-pos/internal/service"
	"go-bakery-pos/pkg/apperror"
	"go-bakery-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	roles       repository.RoleRepository
	privileges  repository.PrivilegeRepository
	log         *slog.Logger
}

func NewAuthHandler(authService service.AuthService, roles repository.RoleRepository, privileges repository.PrivilegeRepository, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, roles: roles, privileges: privileges, log: log}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest represents the reset password request body
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// Login handles operator authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}
	return c.JSON(response)
}

// ResetPassword handles password change
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "Email, old_password, and new_password are required")
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWrongPassword) || errors.Is(err, service.ErrUserNotFound) {
			return badRequest(c, err.Error())
		}
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ValidateToken handles JWT token validation
// POST /api/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Token == "" {
		return badRequest(c, "Token is required")
	}

	response, err := h.authService.ValidateToken(c.UserContext(), req.Token)
	if err != nil {
		return h.authError(c, err)
	}
	return c.JSON(response)
}

func (h *AuthHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roles.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(roles)
}

func (h *AuthHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privileges.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(privileges)
}

// authError returns 401 for credential and session failures.
func (h *AuthHandler) authError(c *fiber.Ctx, err error) error {
	if apperror.IsDomain(err) {
		return respondError(c, h.log, err)
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return respondError(c, h.log, err)
}
