// Package model defines the core domain types shared across the advisory engine.
package model

import (
	"strings"
	"time"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome represents money received.
	TypeIncome TransactionType = "income"
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "expense"
)

// Transaction represents a single financial transaction.
type Transaction struct {
	Date        time.Time
	ID          string
	UserID      string
	Description string
	Category    string
	Type        TransactionType
	Amount      float64
}

// IsDebtPayment reports whether the transaction's category names a debt
// obligation. Detection is by category-name substring so that renamed or
// user-created debt categories still count.
func (t *Transaction) IsDebtPayment() bool {
	return IsDebtCategory(t.Category)
}

// debtMarkers are the category-name fragments treated as debt service.
var debtMarkers = []string{"credit card", "loan", "debt", "mortgage"}

// IsDebtCategory reports whether a category name refers to debt service.
func IsDebtCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, marker := range debtMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
