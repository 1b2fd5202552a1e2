package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"billing-service/internal/httputil"
	"billing-service/internal/models"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (ph *PaymentHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/accounts/:id", auth.RequireCollector)

	gr.Post("/payments", ph.RecordPayment)
	gr.Get("/payments", ph.ListPayments)
}

// RecordPayment applies a tariff payment to the account in the path.
// The collector identity comes from the token, never the body.
func (ph *PaymentHandler) RecordPayment(c fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	var req models.RecordPaymentRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	req.AccountID = accountID

	claims := claimsFrom(c)
	result, err := ph.paymentService.RecordTariffPayment(c.Context(), req, claims.CollectorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(result))
}

func (ph *PaymentHandler) ListPayments(c fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	payments, err := ph.paymentService.ListByAccount(c.Context(), accountID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(payments))
}
