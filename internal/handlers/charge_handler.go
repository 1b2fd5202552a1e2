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

type ChargeHandler struct {
	chargeService *services.ChargeService
}

func NewChargeHandler(chargeService *services.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

func (ch *ChargeHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1", auth.RequireCollector)

	gr.Post("/charges", ch.CreateCharge)
	gr.Get("/accounts/:id/charges", ch.ListCharges)
}

func (ch *ChargeHandler) CreateCharge(c fiber.Ctx) error {
	if !claimsFrom(c).Elevated() {
		return respondServiceError(c, services.ErrUnauthorized)
	}

	var req models.CreateChargeRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	charge, err := ch.chargeService.Create(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(charge))
}

func (ch *ChargeHandler) ListCharges(c fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}
	activeOnly := c.Query("active") == "true"

	charges, outstanding, err := ch.chargeService.ListByAccount(c.Context(), accountID, activeOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(fiber.Map{
		"charges":           charges,
		"total_outstanding": outstanding,
	}))
}
