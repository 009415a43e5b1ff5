package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthKeyLayout is the year-month grouping key format (YYYY-MM).
const MonthKeyLayout = "2006-01"

type (
	// MonthlyStat is the derived per-month rollup. It has no independent
	// lifecycle: it is recomputed on demand from the transaction list.
	MonthlyStat struct {
		Income           decimal.Decimal              `json:"income"`
		Expenses         decimal.Decimal              `json:"expenses"`
		ByCategory       map[Category]decimal.Decimal `json:"by_category"`
		TransactionCount int                          `json:"transaction_count"`
	}

	// Averages holds per-month means over the months that actually have
	// data. Months is the distinct-month count used as the divisor.
	Averages struct {
		Income     decimal.Decimal
		Expenses   decimal.Decimal
		ByCategory map[Category]decimal.Decimal
		Months     int
	}

	// Trend compares the two most recent months with data.
	Trend struct {
		LatestMonth   string `json:"latest_month"`
		PreviousMonth string `json:"previous_month"`
		// Change is latest expenses minus previous.
		Change         decimal.Decimal `json:"change"`
		ChangePercent  decimal.Decimal `json:"change_percent"`
		PercentDefined bool            `json:"percent_defined"` // false when the previous month spent nothing
	}
)

// MonthKey derives the YYYY-MM grouping key from a transaction date.
func MonthKey(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.Format(MonthKeyLayout), nil
}

// AggregateMonthly rolls transactions up into per-month statistics.
// Transactions with unparsable dates contribute to no totals; they are
// dropped and reported through the skipped count so callers can surface
// the data loss. Payment-exclusion records contribute to nothing at all.
// The result is independent of input order.
func AggregateMonthly(txs []Transaction) (stats map[string]*MonthlyStat, skipped int) {
	stats = make(map[string]*MonthlyStat)
	for _, t := range txs {
		if t.Category == CategoryExcludePayment {
			continue
		}
		key, err := MonthKey(t.Date)
		if err != nil {
			skipped++
			continue
		}
		s, ok := stats[key]
		if !ok {
			s = &MonthlyStat{ByCategory: make(map[Category]decimal.Decimal)}
			stats[key] = s
		}
		s.TransactionCount++
		if t.Type == TypeIncome {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expenses = s.Expenses.Add(t.Amount)
			s.ByCategory[t.Category] = s.ByCategory[t.Category].Add(t.Amount)
		}
	}
	return stats, skipped
}

// MonthlyAverages divides multi-month totals by the number of distinct
// months observed, never by an assumed month count. An empty input yields
// zeroed averages with Months == 0.
func MonthlyAverages(stats map[string]*MonthlyStat) Averages {
	avg := Averages{ByCategory: make(map[Category]decimal.Decimal)}
	if len(stats) == 0 {
		return avg
	}
	var incomeTotal, expenseTotal decimal.Decimal
	categoryTotals := make(map[Category]decimal.Decimal)
	for _, s := range stats {
		incomeTotal = incomeTotal.Add(s.Income)
		expenseTotal = expenseTotal.Add(s.Expenses)
		for cat, amount := range s.ByCategory {
			categoryTotals[cat] = categoryTotals[cat].Add(amount)
		}
	}
	months := decimal.NewFromInt(int64(len(stats)))
	avg.Months = len(stats)
	avg.Income = incomeTotal.Div(months)
	avg.Expenses = expenseTotal.Div(months)
	for cat, total := range categoryTotals {
		avg.ByCategory[cat] = total.Div(months)
	}
	return avg
}

// SavingsRate returns (income-expenses)/income as a percentage. The
// second result is false when income is zero and the rate is undefined.
func SavingsRate(income, expenses decimal.Decimal) (decimal.Decimal, bool) {
	if income.IsZero() {
		return decimal.Zero, false
	}
	return income.Sub(expenses).Div(income).Mul(decimal.NewFromInt(100)), true
}

// SpendingTrend compares the latest month against the one before it.
// It returns false when fewer than two months have data.
func SpendingTrend(stats map[string]*MonthlyStat) (Trend, bool) {
	if len(stats) < 2 {
		return Trend{}, false
	}
	months := SortedMonths(stats)
	latest, previous := months[len(months)-1], months[len(months)-2]

	latestExpenses := stats[latest].Expenses
	previousExpenses := stats[previous].Expenses

	t := Trend{
		LatestMonth:   latest,
		PreviousMonth: previous,
		Change:        latestExpenses.Sub(previousExpenses),
	}
	if !previousExpenses.IsZero() {
		t.ChangePercent = t.Change.Div(previousExpenses).Mul(decimal.NewFromInt(100))
		t.PercentDefined = true
	}
	return t, true
}

// SortedMonths returns the month keys in ascending calendar order.
// YYYY-MM keys sort lexicographically.
func SortedMonths(stats map[string]*MonthlyStat) []string {
	months := make([]string, 0, len(stats))
	for key := range stats {
		months = append(months, key)
	}
	sort.Strings(months)
	return months
}

// CurrentMonthKey derives the grouping key for the month containing now.
func CurrentMonthKey(now time.Time) string {
	return now.Format(MonthKeyLayout)
}
