package ledger

import (
	"testing"

	"finflow-gateway/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsLifecycle(t *testing.T) {
	l := New()
	assert.Empty(t, l.Accounts())

	l.ReplaceAccounts([]domain.Account{{ID: "a1", Name: "Checking"}, {ID: "a2", Name: "Savings"}})
	require.Len(t, l.Accounts(), 2)

	// Upsert replaces in place, keeping order
	l.UpsertAccount(domain.Account{ID: "a1", Name: "Main checking"})
	accounts := l.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, "Main checking", accounts[0].Name)

	// Upsert of an unknown id appends
	l.UpsertAccount(domain.Account{ID: "a3", Name: "Cash"})
	assert.Len(t, l.Accounts(), 3)

	l.RemoveAccount("a2")
	accounts = l.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, "a1", accounts[0].ID)
	assert.Equal(t, "a3", accounts[1].ID)

	// Removing an absent id is a no-op
	l.RemoveAccount("a2")
	assert.Len(t, l.Accounts(), 2)
}

func TestTransactionsLifecycle(t *testing.T) {
	l := New()

	l.ReplaceTransactions([]domain.Transaction{{ID: "t1", Amount: 10}, {ID: "t2", Amount: 20}})
	l.UpsertTransaction(domain.Transaction{ID: "t2", Amount: 25})
	l.UpsertTransaction(domain.Transaction{ID: "t3", Amount: 30})

	transactions := l.Transactions()
	require.Len(t, transactions, 3)
	assert.Equal(t, 25.0, transactions[1].Amount)

	l.RemoveTransaction("t1")
	assert.Len(t, l.Transactions(), 2)
}

func TestCategoriesLifecycle(t *testing.T) {
	l := New()

	l.ReplaceCategories([]domain.Category{{ID: "c1", Name: "Food", Type: domain.TypeExpense}})
	l.UpsertCategory(domain.Category{ID: "c1", Name: "Groceries", Type: domain.TypeExpense})

	categories := l.Categories()
	require.Len(t, categories, 1)
	assert.Equal(t, "Groceries", categories[0].Name)

	l.RemoveCategory("c1")
	assert.Empty(t, l.Categories())
}

func TestSnapshotsAreCopies(t *testing.T) {
	l := New()
	l.ReplaceAccounts([]domain.Account{{ID: "a1", Name: "Checking"}})

	snapshot := l.Accounts()
	snapshot[0].Name = "mutated"

	assert.Equal(t, "Checking", l.Accounts()[0].Name, "callers must not be able to mutate the cache")
}
