package services

import (
	"context"
	"testing"
	"time"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBackend returns canned values and can be switched into failure mode
type stubBackend struct {
	fail error

	accounts     []domain.Account
	categories   []domain.Category
	transactions []domain.Transaction
}

func (s *stubBackend) ListAccounts(ctx context.Context, credential string) ([]domain.Account, error) {
	return s.accounts, s.fail
}

func (s *stubBackend) CreateAccount(ctx context.Context, credential string, input backend.CreateAccountInput) (*domain.Account, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.Account{ID: "acc-new", Name: input.Name, Balance: input.Balance}, nil
}

func (s *stubBackend) UpdateAccount(ctx context.Context, credential, id string, input backend.UpdateAccountInput) (*domain.Account, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	account := &domain.Account{ID: id}
	if input.Name != nil {
		account.Name = *input.Name
	}
	return account, nil
}

func (s *stubBackend) DeleteAccount(ctx context.Context, credential, id string) error {
	return s.fail
}

func (s *stubBackend) ListCategories(ctx context.Context, credential string) ([]domain.Category, error) {
	return s.categories, s.fail
}

func (s *stubBackend) CreateCategory(ctx context.Context, credential string, input backend.CreateCategoryInput) (*domain.Category, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.Category{ID: "cat-new", Name: input.Name, Type: input.Type}, nil
}

func (s *stubBackend) UpdateCategory(ctx context.Context, credential, id string, input backend.UpdateCategoryInput) (*domain.Category, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.Category{ID: id}, nil
}

func (s *stubBackend) DeleteCategory(ctx context.Context, credential, id string) error {
	return s.fail
}

func (s *stubBackend) ListTransactions(ctx context.Context, credential string) ([]domain.Transaction, error) {
	return s.transactions, s.fail
}

func (s *stubBackend) CreateTransaction(ctx context.Context, credential string, input backend.CreateTransactionInput) (*domain.Transaction, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.Transaction{ID: "tx-new", Title: input.Title, Amount: input.Amount, Type: input.Type}, nil
}

func (s *stubBackend) UpdateTransaction(ctx context.Context, credential, id string, input backend.UpdateTransactionInput) (*domain.Transaction, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return &domain.Transaction{ID: id}, nil
}

func (s *stubBackend) DeleteTransaction(ctx context.Context, credential, id string) error {
	return s.fail
}

func TestAccountsRefreshesCache(t *testing.T) {
	stub := &stubBackend{accounts: []domain.Account{{ID: "acc-1", Name: "Checking"}}}
	svc := NewFinanceService(stub)

	accounts, err := svc.Accounts(context.Background(), "cred", "user-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	cached := svc.ledgerFor("user-1").Accounts()
	require.Len(t, cached, 1)
	assert.Equal(t, "Checking", cached[0].Name)
}

func TestCreateAccountMirrorsOnlyConfirmedWrites(t *testing.T) {
	stub := &stubBackend{}
	svc := NewFinanceService(stub)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, "cred", "user-1", backend.CreateAccountInput{Name: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, "acc-new", account.ID)
	assert.Len(t, svc.ledgerFor("user-1").Accounts(), 1)

	// A rejected write must leave the cache untouched
	stub.fail = domain.ErrNetwork
	_, err = svc.CreateAccount(ctx, "cred", "user-1", backend.CreateAccountInput{Name: "Phantom"})
	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Len(t, svc.ledgerFor("user-1").Accounts(), 1, "failed create must not appear locally")
}

func TestDeleteAccountKeepsCacheOnFailure(t *testing.T) {
	stub := &stubBackend{accounts: []domain.Account{{ID: "acc-1"}}}
	svc := NewFinanceService(stub)
	ctx := context.Background()

	_, err := svc.Accounts(ctx, "cred", "user-1")
	require.NoError(t, err)

	stub.fail = domain.ErrNetwork
	err = svc.DeleteAccount(ctx, "cred", "user-1", "acc-1")
	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Len(t, svc.ledgerFor("user-1").Accounts(), 1, "failed delete must not drop the local copy")

	stub.fail = nil
	require.NoError(t, svc.DeleteAccount(ctx, "cred", "user-1", "acc-1"))
	assert.Empty(t, svc.ledgerFor("user-1").Accounts())
}

func TestCachesAreScopedPerUser(t *testing.T) {
	stub := &stubBackend{}
	svc := NewFinanceService(stub)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "cred-a", "user-a", backend.CreateAccountInput{Name: "A"})
	require.NoError(t, err)

	assert.Len(t, svc.ledgerFor("user-a").Accounts(), 1)
	assert.Empty(t, svc.ledgerFor("user-b").Accounts())
}

func TestForgetDropsUserCache(t *testing.T) {
	stub := &stubBackend{}
	svc := NewFinanceService(stub)

	_, err := svc.CreateAccount(context.Background(), "cred", "user-1", backend.CreateAccountInput{Name: "A"})
	require.NoError(t, err)
	require.Len(t, svc.ledgerFor("user-1").Accounts(), 1)

	svc.Forget("user-1")
	assert.Empty(t, svc.ledgerFor("user-1").Accounts())
}

func TestTransactionsRunsFilterPipeline(t *testing.T) {
	stub := &stubBackend{
		accounts:   []domain.Account{{ID: "acc-1", Name: "Checking"}},
		categories: []domain.Category{{ID: "cat-1", Name: "Salary", Type: domain.TypeIncome}},
		transactions: []domain.Transaction{
			{ID: "tx-1", Amount: 1000, Type: domain.TypeIncome, AccountID: "acc-1", CategoryID: "cat-1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "tx-2", Amount: 300, Type: domain.TypeExpense, AccountID: "acc-1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	}
	svc := NewFinanceService(stub)

	views, stats, err := svc.Transactions(context.Background(), "cred", "user-1", domain.FilterSpec{Type: domain.TypeAll})
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, "tx-2", views[0].ID)
	assert.Equal(t, domain.Stats{TotalIncome: 1000, TotalExpense: 300, Balance: 700, Count: 2}, stats)

	// The fetch refreshed all three caches
	l := svc.ledgerFor("user-1")
	assert.Len(t, l.Transactions(), 2)
	assert.Len(t, l.Accounts(), 1)
	assert.Len(t, l.Categories(), 1)
}

func TestTransactionsSurfacesBackendFailure(t *testing.T) {
	stub := &stubBackend{fail: domain.ErrUnauthorized}
	svc := NewFinanceService(stub)

	_, _, err := svc.Transactions(context.Background(), "cred", "user-1", domain.FilterSpec{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
