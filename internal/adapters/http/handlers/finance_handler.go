package handlers

import (
	"errors"
	"fmt"
	"time"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/core/services"
	"finflow-gateway/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FinanceHandler handles the account/category/transaction endpoints
type FinanceHandler struct {
	finance *services.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(finance *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

func caller(c *fiber.Ctx) (credential, userID string) {
	credential, _ = c.Locals("credential").(string)
	userID, _ = c.Locals("userID").(string)
	return credential, userID
}

// ListAccounts returns the caller's accounts
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Success 200 {object} response.Response
// @Router /accounts [get]
func (h *FinanceHandler) ListAccounts(c *fiber.Ctx) error {
	credential, userID := caller(c)
	accounts, err := h.finance.Accounts(c.Context(), credential, userID)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "", fiber.Map{"accounts": accounts})
}

// CreateAccount creates an account
func (h *FinanceHandler) CreateAccount(c *fiber.Ctx) error {
	var input backend.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Account name is required")
	}

	credential, userID := caller(c)
	account, err := h.finance.CreateAccount(c.Context(), credential, userID, input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Account created", fiber.Map{"account": account})
}

// UpdateAccount partially updates an account
func (h *FinanceHandler) UpdateAccount(c *fiber.Ctx) error {
	var input backend.UpdateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	credential, userID := caller(c)
	account, err := h.finance.UpdateAccount(c.Context(), credential, userID, c.Params("id"), input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Account updated", fiber.Map{"account": account})
}

// DeleteAccount deletes an account
func (h *FinanceHandler) DeleteAccount(c *fiber.Ctx) error {
	credential, userID := caller(c)
	if err := h.finance.DeleteAccount(c.Context(), credential, userID, c.Params("id")); err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Account deleted", nil)
}

// ListCategories returns the caller's categories
func (h *FinanceHandler) ListCategories(c *fiber.Ctx) error {
	credential, userID := caller(c)
	categories, err := h.finance.Categories(c.Context(), credential, userID)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "", fiber.Map{"categories": categories})
}

// CreateCategory creates a category
func (h *FinanceHandler) CreateCategory(c *fiber.Ctx) error {
	var input backend.CreateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Category name is required")
	}
	if !input.Type.Valid() {
		return response.BadRequest(c, "Category type must be income or expense")
	}

	credential, userID := caller(c)
	category, err := h.finance.CreateCategory(c.Context(), credential, userID, input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Category created", fiber.Map{"category": category})
}

// UpdateCategory partially updates a category
func (h *FinanceHandler) UpdateCategory(c *fiber.Ctx) error {
	var input backend.UpdateCategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	credential, userID := caller(c)
	category, err := h.finance.UpdateCategory(c.Context(), credential, userID, c.Params("id"), input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Category updated", fiber.Map{"category": category})
}

// DeleteCategory deletes a category
func (h *FinanceHandler) DeleteCategory(c *fiber.Ctx) error {
	credential, userID := caller(c)
	if err := h.finance.DeleteCategory(c.Context(), credential, userID, c.Params("id")); err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Category deleted", nil)
}

// ListTransactions returns the caller's transactions filtered by the
// query parameters, enriched with accounts/categories, sorted most recent
// first, together with the aggregates of the filtered set.
// @Summary List transactions
// @Description Filtered, enriched and aggregated transaction list
// @Tags Transactions
// @Produce json
// @Param search query string false "Substring match on description, notes, account and category names"
// @Param type query string false "all, income or expense"
// @Param accountId query string false "Exact account filter"
// @Param categoryId query string false "Exact category filter"
// @Param dateFrom query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /transactions [get]
func (h *FinanceHandler) ListTransactions(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	credential, userID := caller(c)
	views, stats, err := h.finance.Transactions(c.Context(), credential, userID, filter)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "", fiber.Map{
		"transactions": views,
		"stats":        stats,
	})
}

// CreateTransaction creates a transaction
func (h *FinanceHandler) CreateTransaction(c *fiber.Ctx) error {
	var input backend.CreateTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if !input.Type.Valid() {
		return response.BadRequest(c, "Transaction type must be income or expense")
	}
	if input.AccountID == "" {
		return response.BadRequest(c, "Account is required")
	}
	if input.CategoryID == "" {
		return response.BadRequest(c, "Category is required")
	}

	credential, userID := caller(c)
	tx, err := h.finance.CreateTransaction(c.Context(), credential, userID, input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Created(c, "Transaction created", fiber.Map{"transaction": tx})
}

// UpdateTransaction partially updates a transaction
func (h *FinanceHandler) UpdateTransaction(c *fiber.Ctx) error {
	var input backend.UpdateTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	credential, userID := caller(c)
	tx, err := h.finance.UpdateTransaction(c.Context(), credential, userID, c.Params("id"), input)
	if err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Transaction updated", fiber.Map{"transaction": tx})
}

// DeleteTransaction deletes a transaction
func (h *FinanceHandler) DeleteTransaction(c *fiber.Ctx) error {
	credential, userID := caller(c)
	if err := h.finance.DeleteTransaction(c.Context(), credential, userID, c.Params("id")); err != nil {
		return financeError(c, err)
	}
	return response.Success(c, "Transaction deleted", nil)
}

// parseFilter builds a FilterSpec from the request query. Dates accept
// RFC 3339 or a plain date; a plain-date upper bound covers its whole day
// so the range stays inclusive.
func parseFilter(c *fiber.Ctx) (domain.FilterSpec, error) {
	filter := domain.FilterSpec{
		Search:     c.Query("search"),
		Type:       c.Query("type", domain.TypeAll),
		AccountID:  c.Query("accountId"),
		CategoryID: c.Query("categoryId"),
	}

	if filter.Type != domain.TypeAll && !domain.TransactionType(filter.Type).Valid() {
		return filter, fmt.Errorf("invalid type filter %q", filter.Type)
	}

	if raw := c.Query("dateFrom"); raw != "" {
		t, _, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid dateFrom %q", raw)
		}
		filter.DateFrom = t
	}
	if raw := c.Query("dateTo"); raw != "" {
		t, dateOnly, err := parseDate(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid dateTo %q", raw)
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.DateTo = t
	}

	return filter, nil
}

func parseDate(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

// financeError maps a finance service failure to an HTTP response. The
// error text already names the affected entity and operation.
func financeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrNetwork):
		return response.BadGateway(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, err.Error())
	}
}
