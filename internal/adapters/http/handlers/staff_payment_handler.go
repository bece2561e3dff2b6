package handlers

import (
	"errors"
	"log"

	"paysecure/internal/adapters/http/middleware"
	"paysecure/internal/core/domain"
	"paysecure/internal/core/services"
	"paysecure/internal/pkg/pagination"
	"paysecure/internal/pkg/response"
	"paysecure/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// StaffPaymentHandler handles payment review by employees
type StaffPaymentHandler struct {
	approvalService *services.ApprovalService
}

// NewStaffPaymentHandler creates a new staff payment handler
func NewStaffPaymentHandler(approvalService *services.ApprovalService) *StaffPaymentHandler {
	return &StaffPaymentHandler{approvalService: approvalService}
}

// ProcessPaymentRequest represents a staff decision
type ProcessPaymentRequest struct {
	Action string `json:"action" validate:"required,oneof=approve deny"`
}

// Pending lists payments awaiting review
// @Summary Pending payments
// @Tags Staff Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.Response
// @Router /api/employee/payments/pending [get]
func (h *StaffPaymentHandler) Pending(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	payments, total, err := h.approvalService.ListPending(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		log.Printf("❌ List pending payments failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{
		"payments":   payments,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Process approves or denies a pending payment
// @Summary Process payment
// @Tags Staff Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body ProcessPaymentRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/employee/payments/{id}/process [post]
func (h *StaffPaymentHandler) Process(c *fiber.Ctx) error {
	staffID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req ProcessPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	payment, err := h.approvalService.Process(c.UserContext(), staffID, id, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrPaymentAlreadyProcessed):
			return response.BadRequest(c, "Payment has already been processed")
		case errors.Is(err, domain.ErrInvalidProcessAction):
			return response.BadRequest(c, "Invalid action")
		default:
			log.Printf("❌ Process payment failed: %v", err)
			return response.InternalServerError(c)
		}
	}

	return response.With(c, fiber.StatusOK, "Payment "+payment.Status+" successfully", fiber.Map{"payment": payment})
}

// History lists decided payments
// @Summary Payment history
// @Tags Staff Payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} map[string]interface{}
// @Router /api/employee/payments/history [get]
func (h *StaffPaymentHandler) History(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	payments, total, err := h.approvalService.History(c.UserContext(), c.Query("status"), params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid status filter")
		}
		log.Printf("❌ Payment history failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{
		"payments":   payments,
		"pagination": pagination.GetMeta(params, total),
	})
}
