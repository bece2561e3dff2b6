package handlers

import (
	"errors"
	"log"
	"strings"

	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/core/domain"
	"paysecure/internal/core/services"
	"paysecure/internal/pkg/pagination"
	"paysecure/internal/pkg/response"
	"paysecure/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles staff account administration
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployeeRequest represents create employee request body
type CreateEmployeeRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=employee admin"`
}

// List lists employees
// @Summary List employees
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/employee/admin/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	employees, total, err := h.employeeService.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		log.Printf("❌ List employees failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{
		"employees":  employees,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Create creates an employee
// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEmployeeRequest true "Employee"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/employee/admin/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	actorID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	employee, err := h.employeeService.Create(c.UserContext(), actorID, &services.CreateEmployeeInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return response.With(c, fiber.StatusCreated, "Employee created successfully", fiber.Map{"employee": employee})
}

// Delete deletes an employee
// @Summary Delete employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/employee/admin/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	actorID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid employee ID")
	}

	if err := h.employeeService.Delete(c.UserContext(), actorID, id); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Employee deleted successfully", nil)
}

func (h *EmployeeHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		return response.BadRequest(c, "Username already exists")
	case errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, "Invalid role")
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, domain.ErrCannotDeleteSuperAdmin):
		return response.Forbidden(c, "The super admin cannot be deleted")
	case errors.Is(err, domain.ErrSuperAdminRequired):
		return response.Forbidden(c, "Only the super admin can manage admins")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Insufficient permissions")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return response.NotFound(c, "Employee not found")
	default:
		log.Printf("❌ Employee request failed: %v", err)
		return response.InternalServerError(c)
	}
}
