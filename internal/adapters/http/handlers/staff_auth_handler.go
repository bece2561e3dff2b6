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

// StaffAuthHandler handles employee portal authentication
type StaffAuthHandler struct {
	staffAuthService *services.StaffAuthService
}

// NewStaffAuthHandler creates a new staff auth handler
func NewStaffAuthHandler(staffAuthService *services.StaffAuthService) *StaffAuthHandler {
	return &StaffAuthHandler{staffAuthService: staffAuthService}
}

// StaffLoginRequest represents staff login request body
type StaffLoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login handles employee login
// @Summary Employee login
// @Tags Staff Auth
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "CSRF header"
// @Param body body StaffLoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/employee/auth/login [post]
func (h *StaffAuthHandler) Login(c *fiber.Ctx) error {
	var req StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)

	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	result, err := h.staffAuthService.Login(c.UserContext(), &services.StaffLoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid credentials")
		}
		log.Printf("❌ Employee login failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token":    result.Token,
		"role":     result.Role,
		"employee": result.Employee,
	})
}

// Logout handles employee logout
// @Summary Employee logout
// @Tags Staff Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/employee/auth/logout [post]
func (h *StaffAuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.staffAuthService.Logout(c.UserContext(), middleware.TokenFrom(c), claims.ExpiresAtTime()); err != nil {
		log.Printf("❌ Employee logout failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the signed-in employee
// @Summary Current employee
// @Tags Staff Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/employee/auth/me [get]
func (h *StaffAuthHandler) Me(c *fiber.Ctx) error {
	id, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	employee, err := h.staffAuthService.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return response.NotFound(c, "Employee not found")
		}
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{"employee": employee})
}
