package handlers

import (
	"errors"
	"log"
	"strings"

	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/core/domain"
	"paysecure/internal/core/services"
	"paysecure/internal/pkg/response"
	"paysecure/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles customer authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required,min=2,max=100,fullname"`
	AccountNumber   string `json:"accountNumber" validate:"required,accountnumber"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest represents customer login request body
type LoginRequest struct {
	FullName      string `json:"fullName" validate:"required,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,accountnumber"`
	Password      string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=128"`
}

// Register handles customer registration
// @Summary Register new customer
// @Description Create a customer account and sign it in
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "CSRF header"
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ValidationResponse
// @Failure 429 {object} response.Response
// @Router /api/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)

	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	result, err := h.authService.Register(c.UserContext(), &services.RegisterInput{
		FullName:      req.FullName,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNumberTaken):
			return response.BadRequest(c, "Account number already registered")
		default:
			log.Printf("❌ Register failed: %v", err)
			return response.InternalServerError(c)
		}
	}

	return response.With(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Login handles customer login
// @Summary Customer login
// @Description Authenticate with full name, account number and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "CSRF header"
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)

	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	result, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		FullName:      req.FullName,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid credentials")
		}
		log.Printf("❌ Login failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout handles customer logout
// @Summary Customer logout
// @Description Revoke the presented token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.Logout(c.UserContext(), middleware.TokenFrom(c), claims.ExpiresAtTime()); err != nil {
		log.Printf("❌ Logout failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the signed-in customer
// @Summary Current customer
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{"user": user})
}

// ChangePassword changes the signed-in customer's password
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/me/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	err := h.userService.ChangePassword(c.UserContext(), userID, &services.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOldPasswordWrong):
			return response.BadRequest(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c)
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}
