package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"billing-service/internal/httputil"
	"billing-service/internal/models"
	"billing-service/internal/repository"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

// RolloverHandler exposes the annual close and its operator tooling:
// preview, execution, marker status and the manual reclassification run.
type RolloverHandler struct {
	rolloverService *services.RolloverService
	summaryService  *services.SummaryService
	reclassifyJob   *services.ReclassifyJob
	rolloverRepo    *repository.RolloverRepository
}

func NewRolloverHandler(
	rolloverService *services.RolloverService,
	summaryService *services.SummaryService,
	reclassifyJob *services.ReclassifyJob,
	rolloverRepo *repository.RolloverRepository,
) *RolloverHandler {
	return &RolloverHandler{
		rolloverService: rolloverService,
		summaryService:  summaryService,
		reclassifyJob:   reclassifyJob,
		rolloverRepo:    rolloverRepo,
	}
}

func (rh *RolloverHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/rollover", auth.RequireCollector)

	gr.Post("/", rh.ExecuteRollover)
	gr.Post("/preview", rh.PreviewRollover)
	gr.Get("/:year", rh.GetRolloverStatus)

	adminGr := app.Group("billing/api/v1/admin", auth.RequireCollector)
	adminGr.Post("/reclassify", rh.RunReclassification)
}

func (rh *RolloverHandler) ExecuteRollover(c fiber.Ctx) error {
	var req models.RolloverRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	claims := claimsFrom(c)
	result, err := rh.rolloverService.CloseFiscalYear(c.Context(), req, claims.CollectorID, claims.Elevated())
	if err != nil {
		return respondServiceError(c, err)
	}

	rh.summaryService.Invalidate(c.Context())
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(result))
}

func (rh *RolloverHandler) PreviewRollover(c fiber.Ctx) error {
	var req models.RolloverRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	preview, err := rh.rolloverService.PreviewRollover(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(preview))
}

func (rh *RolloverHandler) GetRolloverStatus(c fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "year must be numeric"))
	}

	marker, err := rh.rolloverRepo.GetByYear(c.Context(), year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(http.StatusNotFound).JSON(httputil.CreateErrorResponse("ROLLOVER_NOT_FOUND", "no rollover recorded for this year"))
		}
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(marker))
}

func (rh *RolloverHandler) RunReclassification(c fiber.Ctx) error {
	claims := claimsFrom(c)
	if !claims.Elevated() {
		return respondServiceError(c, services.ErrUnauthorized)
	}

	changed, err := rh.reclassifyJob.Run(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	rh.summaryService.Invalidate(c.Context())
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(fiber.Map{"statuses_changed": changed}))
}
