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

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (ah *AccountHandler) Register(app *fiber.App, auth *AuthMiddleware) {
	gr := app.Group("billing/api/v1/accounts", auth.RequireCollector)

	gr.Post("/", ah.CreateAccount)
	gr.Get("/", ah.ListAccounts)
	gr.Get("/:id", ah.GetAccount)
	gr.Get("/contract/:number", ah.GetByContractNumber)
	gr.Patch("/:id", ah.UpdateAccount)
}

func (ah *AccountHandler) CreateAccount(c fiber.Ctx) error {
	var req models.CreateAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	account, err := ah.accountService.Onboard(c.Context(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(httputil.CreateSuccessResponse(account))
}

func (ah *AccountHandler) ListAccounts(c fiber.Ctx) error {
	search := c.Query("search")
	status := models.DebtStatus(c.Query("status"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	accounts, err := ah.accountService.List(c.Context(), search, status, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(accounts))
}

func (ah *AccountHandler) GetAccount(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	account, err := ah.accountService.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(account))
}

func (ah *AccountHandler) GetByContractNumber(c fiber.Ctx) error {
	number, err := strconv.ParseInt(c.Params("number"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "contract number must be numeric"))
	}

	account, err := ah.accountService.GetByContractNumber(c.Context(), number)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(account))
}

func (ah *AccountHandler) UpdateAccount(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "account id must be numeric"))
	}

	var req models.UpdateAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(httputil.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	account, err := ah.accountService.UpdateContact(c.Context(), id, req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(httputil.CreateSuccessResponse(account))
}
