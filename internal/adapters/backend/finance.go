package backend

import (
	"context"
	"net/http"
	"time"

	"finflow-gateway/internal/core/domain"
)

// CreateAccountInput is the payload for creating an account
type CreateAccountInput struct {
	Name    string  `json:"name"`
	Type    string  `json:"type,omitempty"`
	Balance float64 `json:"balance"`
}

// UpdateAccountInput is a partial account update; nil fields are untouched
type UpdateAccountInput struct {
	Name    *string  `json:"name,omitempty"`
	Type    *string  `json:"type,omitempty"`
	Balance *float64 `json:"balance,omitempty"`
}

// CreateCategoryInput is the payload for creating a category
type CreateCategoryInput struct {
	Name  string                 `json:"name"`
	Type  domain.TransactionType `json:"type"`
	Color string                 `json:"color,omitempty"`
}

// UpdateCategoryInput is a partial category update
type UpdateCategoryInput struct {
	Name  *string                 `json:"name,omitempty"`
	Type  *domain.TransactionType `json:"type,omitempty"`
	Color *string                 `json:"color,omitempty"`
}

// CreateTransactionInput is the payload for creating a transaction
type CreateTransactionInput struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Amount      float64                `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	AccountID   string                 `json:"accountId"`
	CategoryID  string                 `json:"categoryId"`
	Date        time.Time              `json:"date"`
	Notes       string                 `json:"notes,omitempty"`
}

// UpdateTransactionInput is a partial transaction update
type UpdateTransactionInput struct {
	Title       *string                 `json:"title,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Amount      *float64                `json:"amount,omitempty"`
	Type        *domain.TransactionType `json:"type,omitempty"`
	AccountID   *string                 `json:"accountId,omitempty"`
	CategoryID  *string                 `json:"categoryId,omitempty"`
	Date        *time.Time              `json:"date,omitempty"`
	Notes       *string                 `json:"notes,omitempty"`
}

// ListAccounts fetches the caller's accounts
func (c *Client) ListAccounts(ctx context.Context, credential string) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.do(ctx, http.MethodGet, "/accounts", credential, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateAccount creates an account and returns the stored record
func (c *Client) CreateAccount(ctx context.Context, credential string, input CreateAccountInput) (*domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/account", credential, input, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount partially updates an account and returns the stored record
func (c *Client) UpdateAccount(ctx context.Context, credential, id string, input UpdateAccountInput) (*domain.Account, error) {
	var account domain.Account
	if err := c.do(ctx, http.MethodPatch, "/account/"+id, credential, input, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount deletes an account
func (c *Client) DeleteAccount(ctx context.Context, credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/account/"+id, credential, nil, nil)
}

// ListCategories fetches the caller's categories
func (c *Client) ListCategories(ctx context.Context, credential string) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", credential, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category and returns the stored record
func (c *Client) CreateCategory(ctx context.Context, credential string, input CreateCategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodPost, "/category", credential, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory partially updates a category and returns the stored record
func (c *Client) UpdateCategory(ctx context.Context, credential, id string, input UpdateCategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodPatch, "/category/"+id, credential, input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/category/"+id, credential, nil, nil)
}

// ListTransactions fetches the caller's transactions
func (c *Client) ListTransactions(ctx context.Context, credential string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", credential, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction creates a transaction and returns the stored record
func (c *Client) CreateTransaction(ctx context.Context, credential string, input CreateTransactionInput) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, http.MethodPost, "/transaction", credential, input, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction partially updates a transaction and returns the stored record
func (c *Client) UpdateTransaction(ctx context.Context, credential, id string, input UpdateTransactionInput) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := c.do(ctx, http.MethodPatch, "/transaction/"+id, credential, input, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction deletes a transaction
func (c *Client) DeleteTransaction(ctx context.Context, credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/transaction/"+id, credential, nil, nil)
}
