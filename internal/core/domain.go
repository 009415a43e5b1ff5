package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense TxType = "Expense"
	TypeIncome  TxType = "Income"
)

// DateLayout is the calendar-date format carried on transactions (MM/DD/YYYY).
// Statement extraction produces dates in this shape; anything that does not
// parse with it is treated as malformed.
const DateLayout = "01/02/2006"

type (
	TxType string

	// Category is a fixed spending label assigned by the classifier.
	Category string

	// Transaction is a flat ledger record. It is immutable once stored;
	// corrections are modeled as new entries or deletions, never updates.
	// Amount is always a non-negative magnitude, direction lives in Type.
	Transaction struct {
		ID            string          `json:"id"`
		Date          string          `json:"date"` // MM/DD/YYYY
		Vendor        string          `json:"vendor"`
		Amount        decimal.Decimal `json:"amount"`
		Category      Category        `json:"category"`
		Type          TxType          `json:"type"`
		Notes         string          `json:"notes,omitempty"`
		SourceAccount string          `json:"source_account,omitempty"`
	}

	// Budget maps a category to its monthly limit. A zero or absent limit
	// means "no limit" for that category. Budgets are replaced wholesale on
	// save, never merged.
	Budget map[Category]decimal.Decimal
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyVendor   = errors.New("empty vendor")
	ErrInvalidType   = errors.New("invalid transaction type")
)

func (t TxType) IsValid() bool {
	return t == TypeExpense || t == TypeIncome
}

// ParseDate parses a transaction date string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// FormatDate renders a time in the transaction date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func (t Transaction) Validate() error {
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Vendor)) == 0 {
		return ErrEmptyVendor
	}
	if len(t.Vendor) > 200 {
		return errors.New("vendor too long (max 200 characters)")
	}
	if t.Amount.IsNegative() || t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if len(t.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

// Validate rejects negative limits. Zero limits are allowed: they disable
// alerting for the category rather than meaning zero tolerance.
func (b Budget) Validate() error {
	for cat, limit := range b {
		if strings.TrimSpace(string(cat)) == "" {
			return errors.New("empty budget category")
		}
		if limit.IsNegative() {
			return errors.New("negative budget limit for " + string(cat))
		}
	}
	return nil
}

// Total returns the sum of all configured limits.
func (b Budget) Total() decimal.Decimal {
	total := decimal.Zero
	for _, limit := range b {
		total = total.Add(limit)
	}
	return total
}
