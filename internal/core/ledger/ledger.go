// Package ledger holds the client-side copies of the backend-owned lists
// (accounts, categories, transactions). Each list is a cache kept
// consistent with the backend by replacing or removing only the affected
// entry after a confirmed write; failed writes are never applied locally.
package ledger

import (
	"sync"

	"finflow-gateway/internal/core/domain"
)

// Lists is the mutable cache for one user's data
type Lists struct {
	mu           sync.RWMutex
	accounts     []domain.Account
	categories   []domain.Category
	transactions []domain.Transaction
}

// New creates an empty cache
func New() *Lists {
	return &Lists{}
}

// Accounts returns a copy of the cached account list
func (l *Lists) Accounts() []domain.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Account, len(l.accounts))
	copy(out, l.accounts)
	return out
}

// ReplaceAccounts swaps the whole account list after a fresh fetch
func (l *Lists) ReplaceAccounts(accounts []domain.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = append([]domain.Account(nil), accounts...)
}

// UpsertAccount replaces the entry with the same id or appends it
func (l *Lists) UpsertAccount(account domain.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.accounts {
		if l.accounts[i].ID == account.ID {
			l.accounts[i] = account
			return
		}
	}
	l.accounts = append(l.accounts, account)
}

// RemoveAccount drops the entry with the given id, keeping order
func (l *Lists) RemoveAccount(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.accounts {
		if l.accounts[i].ID == id {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			return
		}
	}
}

// Categories returns a copy of the cached category list
func (l *Lists) Categories() []domain.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// ReplaceCategories swaps the whole category list after a fresh fetch
func (l *Lists) ReplaceCategories(categories []domain.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.categories = append([]domain.Category(nil), categories...)
}

// UpsertCategory replaces the entry with the same id or appends it
func (l *Lists) UpsertCategory(category domain.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.categories {
		if l.categories[i].ID == category.ID {
			l.categories[i] = category
			return
		}
	}
	l.categories = append(l.categories, category)
}

// RemoveCategory drops the entry with the given id, keeping order
func (l *Lists) RemoveCategory(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.categories {
		if l.categories[i].ID == id {
			l.categories = append(l.categories[:i], l.categories[i+1:]...)
			return
		}
	}
}

// Transactions returns a copy of the cached transaction list
func (l *Lists) Transactions() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// ReplaceTransactions swaps the whole transaction list after a fresh fetch
func (l *Lists) ReplaceTransactions(transactions []domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append([]domain.Transaction(nil), transactions...)
}

// UpsertTransaction replaces the entry with the same id or appends it
func (l *Lists) UpsertTransaction(tx domain.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.transactions {
		if l.transactions[i].ID == tx.ID {
			l.transactions[i] = tx
			return
		}
	}
	l.transactions = append(l.transactions, tx)
}

// RemoveTransaction drops the entry with the given id, keeping order
func (l *Lists) RemoveTransaction(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return
		}
	}
}
