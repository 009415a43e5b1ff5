// Package sqlite is the SQLite store backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finrecon/internal/core"
	"finrecon/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, vendor, amount, category, type, notes, source_account
		FROM transactions
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var amount, category, typ string
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Vendor, &amount, &category, &typ, &tx.Notes, &tx.SourceAccount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode amount for transaction %s: %w", tx.ID, err)
		}
		tx.Category = core.Category(category)
		tx.Type = core.TxType(typ)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) SaveTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, vendor, amount, category, type, notes, source_account)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date, tx.Vendor, tx.Amount.String(), string(tx.Category), string(tx.Type), tx.Notes, tx.SourceAccount)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"vendor", tx.Vendor,
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"type", tx.Type)

	return tx.ID, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) LoadBudget(ctx context.Context) (core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, monthly_limit FROM budgets`)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	defer rows.Close()

	budget := core.Budget{}
	for rows.Next() {
		var category, limit string
		if err := rows.Scan(&category, &limit); err != nil {
			return nil, fmt.Errorf("scan budget row: %w", err)
		}
		amount, err := decimal.NewFromString(limit)
		if err != nil {
			return nil, fmt.Errorf("decode limit for %s: %w", category, err)
		}
		budget[core.Category(category)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budget rows: %w", err)
	}
	return budget, nil
}

// SaveBudget replaces the stored budget wholesale inside one transaction.
func (r *Repository) SaveBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin budget update: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("clear budget: %w", err)
	}
	for category, limit := range b {
		if _, err := dbTx.ExecContext(ctx, `INSERT INTO budgets (category, monthly_limit) VALUES (?, ?)`,
			string(category), limit.String()); err != nil {
			return fmt.Errorf("save budget for %s: %w", category, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit budget update: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved to SQLite", "categories", len(b))
	return nil
}

var _ store.Store = (*Repository)(nil)

// Ping reports whether the database connection is healthy.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
