package handlers

import (
	"net/http"

	"billing-service/internal/httputil"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type SummaryHandler struct {
	summaryService *services.SummaryService
}

func NewSummaryHandler(summaryService *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

func (sh *SummaryHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/summary", auth.RequireCollector)

	gr.Get("/debtors", sh.DebtorSummary)
}

func (sh *SummaryHandler) DebtorSummary(c fiber.Ctx) error {
	summary, err := sh.summaryService.DebtorSummary(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(summary))
}
