package services

import (
	"context"
	"fmt"
	"sync"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/core/ledger"
	"finflow-gateway/internal/core/query"
)

// FinanceBackend is the slice of the backend client the service consumes
type FinanceBackend interface {
	ListAccounts(ctx context.Context, credential string) ([]domain.Account, error)
	CreateAccount(ctx context.Context, credential string, input backend.CreateAccountInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, credential, id string, input backend.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, credential, id string) error

	ListCategories(ctx context.Context, credential string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, credential string, input backend.CreateCategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, credential, id string, input backend.UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, credential, id string) error

	ListTransactions(ctx context.Context, credential string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, credential string, input backend.CreateTransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, credential, id string, input backend.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, credential, id string) error
}

// FinanceService mediates account/category/transaction operations between
// the HTTP surface and the backend. Per user it keeps a ledger cache that
// mirrors the backend lists: a mutation touches the cache only after the
// backend confirmed the write, so a failed write never leaves the local
// copy diverged.
type FinanceService struct {
	backend FinanceBackend

	mu      sync.Mutex
	ledgers map[string]*ledger.Lists
}

// NewFinanceService creates a finance service over the backend client
func NewFinanceService(b FinanceBackend) *FinanceService {
	return &FinanceService{
		backend: b,
		ledgers: make(map[string]*ledger.Lists),
	}
}

// ledgerFor returns the cache for one user, creating it on first use
func (s *FinanceService) ledgerFor(userID string) *ledger.Lists {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[userID]
	if !ok {
		l = ledger.New()
		s.ledgers[userID] = l
	}
	return l
}

// Forget drops the cached lists for a user (called on logout)
func (s *FinanceService) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledgers, userID)
}

// Accounts fetches the account list, refreshing the cache
func (s *FinanceService) Accounts(ctx context.Context, credential, userID string) ([]domain.Account, error) {
	accounts, err := s.backend.ListAccounts(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	s.ledgerFor(userID).ReplaceAccounts(accounts)
	return accounts, nil
}

// CreateAccount creates an account on the backend, then mirrors it locally
func (s *FinanceService) CreateAccount(ctx context.Context, credential, userID string, input backend.CreateAccountInput) (*domain.Account, error) {
	account, err := s.backend.CreateAccount(ctx, credential, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.ledgerFor(userID).UpsertAccount(*account)
	return account, nil
}

// UpdateAccount partially updates an account, then mirrors it locally
func (s *FinanceService) UpdateAccount(ctx context.Context, credential, userID, id string, input backend.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.backend.UpdateAccount(ctx, credential, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	s.ledgerFor(userID).UpsertAccount(*account)
	return account, nil
}

// DeleteAccount deletes an account, then drops it locally
func (s *FinanceService) DeleteAccount(ctx context.Context, credential, userID, id string) error {
	if err := s.backend.DeleteAccount(ctx, credential, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.ledgerFor(userID).RemoveAccount(id)
	return nil
}

// Categories fetches the category list, refreshing the cache
func (s *FinanceService) Categories(ctx context.Context, credential, userID string) ([]domain.Category, error) {
	categories, err := s.backend.ListCategories(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	s.ledgerFor(userID).ReplaceCategories(categories)
	return categories, nil
}

// CreateCategory creates a category on the backend, then mirrors it locally
func (s *FinanceService) CreateCategory(ctx context.Context, credential, userID string, input backend.CreateCategoryInput) (*domain.Category, error) {
	category, err := s.backend.CreateCategory(ctx, credential, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.ledgerFor(userID).UpsertCategory(*category)
	return category, nil
}

// UpdateCategory partially updates a category, then mirrors it locally
func (s *FinanceService) UpdateCategory(ctx context.Context, credential, userID, id string, input backend.UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.backend.UpdateCategory(ctx, credential, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	s.ledgerFor(userID).UpsertCategory(*category)
	return category, nil
}

// DeleteCategory deletes a category, then drops it locally
func (s *FinanceService) DeleteCategory(ctx context.Context, credential, userID, id string) error {
	if err := s.backend.DeleteCategory(ctx, credential, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.ledgerFor(userID).RemoveCategory(id)
	return nil
}

// Transactions fetches the transaction, account and category lists, runs
// the filter pipeline and returns the enriched views together with the
// aggregates of the filtered set.
func (s *FinanceService) Transactions(ctx context.Context, credential, userID string, filter domain.FilterSpec) ([]domain.TransactionView, domain.Stats, error) {
	transactions, err := s.backend.ListTransactions(ctx, credential)
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("failed to load transactions: %w", err)
	}

	accounts, err := s.backend.ListAccounts(ctx, credential)
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	categories, err := s.backend.ListCategories(ctx, credential)
	if err != nil {
		return nil, domain.Stats{}, fmt.Errorf("failed to load categories: %w", err)
	}

	l := s.ledgerFor(userID)
	l.ReplaceTransactions(transactions)
	l.ReplaceAccounts(accounts)
	l.ReplaceCategories(categories)

	views := query.Apply(transactions, filter, accounts, categories)
	stats := query.Summarize(transactions, filter, accounts, categories)
	return views, stats, nil
}

// CreateTransaction creates a transaction, then mirrors it locally
func (s *FinanceService) CreateTransaction(ctx context.Context, credential, userID string, input backend.CreateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.backend.CreateTransaction(ctx, credential, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	s.ledgerFor(userID).UpsertTransaction(*tx)
	return tx, nil
}

// UpdateTransaction partially updates a transaction, then mirrors it locally
func (s *FinanceService) UpdateTransaction(ctx context.Context, credential, userID, id string, input backend.UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.backend.UpdateTransaction(ctx, credential, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	s.ledgerFor(userID).UpsertTransaction(*tx)
	return tx, nil
}

// DeleteTransaction deletes a transaction, then drops it locally
func (s *FinanceService) DeleteTransaction(ctx context.Context, credential, userID, id string) error {
	if err := s.backend.DeleteTransaction(ctx, credential, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.ledgerFor(userID).RemoveTransaction(id)
	return nil
}
