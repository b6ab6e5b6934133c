// Package query implements the transaction filter/sort/aggregate pipeline
// backing the transactions page.
package query

import (
	"sort"
	"strings"

	"finflow-gateway/internal/core/domain"
)

// Apply runs the full pipeline: keep the transactions matching the filter,
// enrich each survivor with its resolved account and category, then sort by date
// descending. The sort is stable, so transactions on the same date keep
// their original list order.
func Apply(transactions []domain.Transaction, filter domain.FilterSpec, accounts []domain.Account, categories []domain.Category) []domain.TransactionView {
	accountsByID := make(map[string]*domain.Account, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
	}
	categoriesByID := make(map[string]*domain.Category, len(categories))
	for i := range categories {
		categoriesByID[categories[i].ID] = &categories[i]
	}

	views := make([]domain.TransactionView, 0, len(transactions))
	for _, tx := range transactions {
		if !matches(tx, filter, accountsByID, categoriesByID) {
			continue
		}
		views = append(views, domain.TransactionView{
			Transaction: tx,
			Account:     accountsByID[tx.AccountID],
			Category:    categoriesByID[tx.CategoryID],
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date.After(views[j].Date)
	})
	return views
}

// Summarize aggregates the filtered (pre-sort) set: totals partitioned by
// type, their difference as balance, and the surviving count.
func Summarize(transactions []domain.Transaction, filter domain.FilterSpec, accounts []domain.Account, categories []domain.Category) domain.Stats {
	accountsByID := make(map[string]*domain.Account, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
	}
	categoriesByID := make(map[string]*domain.Category, len(categories))
	for i := range categories {
		categoriesByID[categories[i].ID] = &categories[i]
	}

	var stats domain.Stats
	for _, tx := range transactions {
		if !matches(tx, filter, accountsByID, categoriesByID) {
			continue
		}
		stats.Count++
		switch tx.Type {
		case domain.TypeIncome:
			stats.TotalIncome += tx.Amount
		case domain.TypeExpense:
			stats.TotalExpense += tx.Amount
		}
	}
	stats.Balance = stats.TotalIncome - stats.TotalExpense
	return stats
}

// matches applies the filter steps in order: search, type, account,
// category, date range. An empty search term matches everything; a
// non-empty term must appear (case-folded) in the description, the notes,
// the resolved account name or the resolved category name.
func matches(tx domain.Transaction, f domain.FilterSpec, accounts map[string]*domain.Account, categories map[string]*domain.Category) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		accountName, categoryName := "", ""
		if a := accounts[tx.AccountID]; a != nil {
			accountName = a.Name
		}
		if c := categories[tx.CategoryID]; c != nil {
			categoryName = c.Name
		}
		if !containsFold(tx.Description, term) &&
			!containsFold(tx.Notes, term) &&
			!containsFold(accountName, term) &&
			!containsFold(categoryName, term) {
			return false
		}
	}

	if f.Type != "" && f.Type != domain.TypeAll && string(tx.Type) != f.Type {
		return false
	}
	if f.AccountID != "" && tx.AccountID != f.AccountID {
		return false
	}
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}

	// Date bounds are inclusive
	if !f.DateFrom.IsZero() && tx.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && tx.Date.After(f.DateTo) {
		return false
	}
	return true
}

func containsFold(haystack, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerTerm)
}
