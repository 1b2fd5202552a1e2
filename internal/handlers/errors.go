package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"billing-service/internal/httputil"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

// respondServiceError translates the service error taxonomy to HTTP:
// validation problems are 400, authorization 403, missing entities 404,
// the rollover re-run 409, business-rule refusals 422, anything else an
// opaque 500.
func respondServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidation(err):
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("VALIDATION_FAILED", err.Error()))

	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(http.StatusForbidden).JSON(httputil.CreateErrorResponse("FORBIDDEN", "elevated role required"))

	case errors.Is(err, services.ErrAccountNotFound):
		return c.Status(http.StatusNotFound).JSON(httputil.CreateErrorResponse("ACCOUNT_NOT_FOUND", "account does not exist"))
	case errors.Is(err, services.ErrPlanNotFound):
		return c.Status(http.StatusNotFound).JSON(httputil.CreateErrorResponse("PLAN_NOT_FOUND", "service plan does not exist"))
	case errors.Is(err, services.ErrDiscountNotFound):
		return c.Status(http.StatusNotFound).JSON(httputil.CreateErrorResponse("DISCOUNT_NOT_FOUND", "discount does not exist"))
	case errors.Is(err, services.ErrChargeTypeNotFound):
		return c.Status(http.StatusNotFound).JSON(httputil.CreateErrorResponse("CHARGE_TYPE_NOT_FOUND", "charge type does not exist"))

	case errors.Is(err, services.ErrRolloverAlreadyExecuted):
		return c.Status(http.StatusConflict).JSON(httputil.CreateErrorResponse("ROLLOVER_ALREADY_EXECUTED", "rollover for this year already ran"))

	case errors.Is(err, services.ErrOutstandingCharges):
		return c.Status(http.StatusUnprocessableEntity).JSON(httputil.CreateErrorResponse("OUTSTANDING_CHARGES", "account has pending charges; settle charges before tariff payments"))
	case errors.Is(err, services.ErrNoPendingCharges):
		return c.Status(http.StatusUnprocessableEntity).JSON(httputil.CreateErrorResponse("NO_PENDING_CHARGES", "account has no active charges to pay"))
	case errors.Is(err, services.ErrAmountExceedsDebt):
		return c.Status(http.StatusUnprocessableEntity).JSON(httputil.CreateErrorResponse("AMOUNT_EXCEEDS_DEBT", err.Error()))

	default:
		slog.Error("unhandled service error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(httputil.CreateErrorResponse("INTERNAL_SERVER_ERROR", "unexpected error"))
	}
}
