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

// PaymentHandler handles customer payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest represents create payment request body
type CreatePaymentRequest struct {
	Amount           float64                `json:"amount" validate:"required,gt=0,lte=1000000000"`
	Currency         string                 `json:"currency" validate:"omitempty,currency"`
	PaymentMethod    string                 `json:"paymentMethod" validate:"required,oneof=credit_card debit_card bank_transfer paypal swift"`
	Description      string                 `json:"description" validate:"max=500"`
	RecipientName    string                 `json:"recipientName" validate:"omitempty,max=100"`
	RecipientAccount string                 `json:"recipientAccount" validate:"omitempty,alphanum,max=34"`
	SwiftCode        string                 `json:"swiftCode" validate:"omitempty,alphanum,min=8,max=11"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// UpdateStatusRequest represents the owner's status change body
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed failed refunded"`
}

// List lists the caller's payments
// @Summary List payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} map[string]interface{}
// @Router /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	payments, total, err := h.paymentService.List(c.UserContext(), userID, params.Offset, params.Limit)
	if err != nil {
		log.Printf("❌ List payments failed: %v", err)
		return response.InternalServerError(c)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{
		"payments":   payments,
		"pagination": pagination.GetMeta(params, total),
	})
}

// Get returns one of the caller's payments
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.paymentService.Get(c.UserContext(), userID, id)
	if err != nil {
		return h.fail(c, err)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{"payment": payment})
}

// Create submits a new payment
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePaymentRequest true "Payment"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ValidationResponse
// @Router /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.SwiftCode = strings.ToUpper(strings.TrimSpace(req.SwiftCode))
	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	payment, err := h.paymentService.Create(c.UserContext(), userID, &services.CreatePaymentInput{
		Amount:           req.Amount,
		Currency:         req.Currency,
		PaymentMethod:    req.PaymentMethod,
		Description:      req.Description,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		SwiftCode:        req.SwiftCode,
		Metadata:         req.Metadata,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return response.With(c, fiber.StatusCreated, "Payment created successfully", fiber.Map{"payment": payment})
}

// UpdateStatus settles or refunds a payment
// @Summary Update payment status
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body UpdateStatusRequest true "Target status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/payments/{id}/status [put]
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return response.Validation(c, errs)
	}

	payment, err := h.paymentService.UpdateStatus(c.UserContext(), userID, id, req.Status)
	if err != nil {
		return h.fail(c, err)
	}

	return response.With(c, fiber.StatusOK, "Payment status updated", fiber.Map{"payment": payment})
}

// Delete removes a payment
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid payment ID")
	}

	if err := h.paymentService.Delete(c.UserContext(), userID, id); err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, "Payment deleted successfully", nil)
}

// Stats summarises the caller's payments
// @Summary Payment statistics
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/payments/stats [get]
func (h *PaymentHandler) Stats(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.paymentService.Stats(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return response.With(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

func (h *PaymentHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		return response.NotFound(c, "Payment not found")
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return response.BadRequest(c, "Invalid status transition")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid payment data")
	default:
		log.Printf("❌ Payment request failed: %v", err)
		return response.InternalServerError(c)
	}
}
