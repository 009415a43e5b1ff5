package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Recurring charge frequencies.
const (
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
	FrequencyYearly  Frequency = "Yearly"
)

type (
	Frequency string

	// RecurringExpense is a template for a charge that repeats on a
	// schedule. NextDue marks the next date the charge should appear in
	// the ledger; materializing an entry advances it by one period.
	RecurringExpense struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Amount    decimal.Decimal `json:"amount"`
		Category  Category        `json:"category"`
		Frequency Frequency       `json:"frequency"`
		NextDue   string          `json:"next_due"` // MM/DD/YYYY
	}
)

var ErrInvalidFrequency = errors.New("invalid frequency")

func (f Frequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyMonthly || f == FrequencyYearly
}

func (r RecurringExpense) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return errors.New("empty recurring expense name")
	}
	if len(r.Name) > 200 {
		return errors.New("recurring expense name too long (max 200 characters)")
	}
	if r.Amount.IsNegative() || r.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(string(r.Category)) == "" {
		return errors.New("empty recurring expense category")
	}
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if _, err := ParseDate(r.NextDue); err != nil {
		return err
	}
	return nil
}

// MonthlyRecurringTotal sums the amounts of monthly-frequency items.
// Weekly and yearly items are left out rather than normalized, the
// headline metric is "what leaves the account every month as-is".
func MonthlyRecurringTotal(items []RecurringExpense) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Frequency == FrequencyMonthly {
			total = total.Add(item.Amount)
		}
	}
	return total
}
