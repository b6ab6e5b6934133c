package domain

import "time"

// TransactionType classifies a transaction as money in or money out
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// User represents the authenticated user record owned by the backend.
// The gateway only ever holds a read-only cached copy of it.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Account represents a bank account
type Account struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type,omitempty"`
	Balance float64 `json:"balance"`
}

// Category represents a transaction category
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color,omitempty"`
}

// Transaction represents a single financial movement
type Transaction struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	AccountID   string          `json:"accountId"`
	CategoryID  string          `json:"categoryId"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes,omitempty"`
}

// TransactionView is a Transaction enriched with its resolved account and
// category. Account/Category are nil when the referenced entity was deleted
// or has not been loaded.
type TransactionView struct {
	Transaction
	Account  *Account  `json:"account,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// TypeAll is the FilterSpec sentinel meaning "both transaction types"
const TypeAll = "all"

// FilterSpec narrows a transaction list. Sentinel convention: Type uses
// TypeAll to mean no type filter, AccountID/CategoryID use the empty
// string, DateFrom/DateTo use the zero time.
type FilterSpec struct {
	Search     string
	Type       string
	AccountID  string
	CategoryID string
	DateFrom   time.Time
	DateTo     time.Time
}

// Stats aggregates a filtered transaction set
type Stats struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
	Count        int     `json:"count"`
}
