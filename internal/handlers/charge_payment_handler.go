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

type ChargePaymentHandler struct {
	chargePaymentService *services.ChargePaymentService
}

func NewChargePaymentHandler(chargePaymentService *services.ChargePaymentService) *ChargePaymentHandler {
	return &ChargePaymentHandler{chargePaymentService: chargePaymentService}
}

func (cph *ChargePaymentHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/accounts/:id", auth.RequireCollector)

	gr.Post("/charge-payments", cph.PayCharges)
	gr.Get("/charge-payments", cph.ListChargePayments)
}

// PayCharges allocates a lump amount across the account's outstanding
// charges, oldest first.
func (cph *ChargePaymentHandler) PayCharges(c fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	var req models.PayChargesRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	req.AccountID = accountID

	claims := claimsFrom(c)
	result, err := cph.chargePaymentService.PayCharges(c.Context(), req, claims.CollectorID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(result))
}

func (cph *ChargePaymentHandler) ListChargePayments(c fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	payments, err := cph.chargePaymentService.ListByAccount(c.Context(), accountID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(payments))
}
