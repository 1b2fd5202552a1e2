package handlers

import (
	"net/http"

	"billing-service/internal/httputil"
	"billing-service/internal/repository"

	"github.com/gofiber/fiber/v3"
)

// CatalogHandler serves the lookup tables the collector UI needs for
// its dropdowns. Read-only; catalog rows are managed by operations
// directly in the database.
type CatalogHandler struct {
	catalogRepo *repository.CatalogRepository
}

func NewCatalogHandler(catalogRepo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo}
}

func (ch *CatalogHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/catalog", auth.RequireCollector)

	gr.Get("/plans", ch.ListServicePlans)
	gr.Get("/discounts", ch.ListDiscounts)
	gr.Get("/charge-types", ch.ListChargeTypes)
}

func (ch *CatalogHandler) ListServicePlans(c fiber.Ctx) error {
	plans, err := ch.catalogRepo.ListServicePlans(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(plans))
}

func (ch *CatalogHandler) ListDiscounts(c fiber.Ctx) error {
	activeOnly := c.Query("active", "true") != "false"
	discounts, err := ch.catalogRepo.ListDiscounts(c.Context(), activeOnly)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(discounts))
}

func (ch *CatalogHandler) ListChargeTypes(c fiber.Ctx) error {
	chargeTypes, err := ch.catalogRepo.ListChargeTypes(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(chargeTypes))
}
