package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/pkg/apperror"
	"go-bakery-pos/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type LoginResponse struct {
	Token      string         `json:"token"`
	User       model.Operator `json:"user"`
	Role       *model.Role    `json:"role"`
	Privileges []string       `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.Operator `json:"user"`
	Role       *model.Role    `json:"role"`
	Privileges []string       `json:"privileges"`
}

type authService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
	signer     *jwt.Signer
	log        *slog.Logger
}

func NewAuthService(users repository.UserRepository, roles repository.RoleRepository, privileges repository.PrivilegeRepository, signer *jwt.Signer, log *slog.Logger) AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &authService{users: users, roles: roles, privileges: privileges, signer: signer, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}

	// 4. Single session: a new token version invalidates older tokens
	version := uuid.New().String()
	if err := s.users.UpdateTokenVersion(ctx, user.ID, version); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	// 5. Generate JWT token with TokenVersion
	privileges := user.GetPrivilegeCodes()
	token, err := s.signer.GenerateToken(user.ID, user.Email, user.FullName, roleCode, privileges, version)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Info("operator logged in", "user_id", user.ID, "role", roleCode)
	return &LoginResponse{
		Token:      token,
		User:       user.Operator(),
		Role:       user.Role,
		Privileges: privileges,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperror.Validation("new password must have at least 6 characters")
	}

	// 1. Find user by email
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrUserNotFound
	}

	// 2. Verify old password
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	// 3. Set new password
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}

	// 4. Invalidate existing sessions
	return s.users.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.signer.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.Operator(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// EnsureAdmin seeds privileges and roles, then creates the first manager
// account when email is not registered yet.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	// 1. Privileges before roles
	if err := s.privileges.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := s.roles.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// 2. Admin already exists
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	// 3. Create it with the manager role
	role, err := s.roles.FindByCode(ctx, model.RoleManager)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:    email,
		FullName: "Gerente",
		RoleID:   &role.ID,
		IsActive: true,
	}
	admin.CreatedBy = model.System.Label()
	admin.UpdatedBy = model.System.Label()
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info("admin user created", "email", email, "role", model.RoleManager)
	return nil
}
