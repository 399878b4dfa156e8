package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
)

// SaveTransaction inserts a transaction. IDs are caller-assigned; a
// duplicate id is an error.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return errors.New("transaction cannot be nil")
	}
	if err := validateString(txn.ID, "transaction.ID"); err != nil {
		return err
	}
	if err := validateString(txn.UserID, "transaction.UserID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, date, description, amount, category, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.Date, txn.Description, txn.Amount, txn.Category, txn.Type)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the user's transactions within the trailing day
// window, newest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string, days int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, description, amount, category, type
		FROM transactions
		WHERE user_id = ? AND date >= ?
		ORDER BY date DESC`, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.UserID, &txn.Date, &txn.Description,
			&txn.Amount, &txn.Category, &txn.Type); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
