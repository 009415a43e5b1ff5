package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finrecon/internal/core"
	"finrecon/internal/store"
)

// CategoryAmount is one category total, used for top-spend listings.
type CategoryAmount struct {
	Category core.Category   `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary is the dashboard headline view over the whole history.
type Summary struct {
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalSpent         decimal.Decimal  `json:"total_spent"`
	NetSavings         decimal.Decimal  `json:"net_savings"`
	SavingsRate        decimal.Decimal  `json:"savings_rate"`
	SavingsRateDefined bool             `json:"savings_rate_defined"`
	TransactionCount   int              `json:"transaction_count"`
	TopCategories      []CategoryAmount `json:"top_categories"`
	SkippedRecords     int              `json:"skipped_records"`
}

// MonthlyReport is the per-month rollup view. Trend is nil until two
// months have data to compare.
type MonthlyReport struct {
	Months         map[string]*core.MonthlyStat `json:"months"`
	Order          []string                     `json:"order"`
	Trend          *core.Trend                  `json:"trend,omitempty"`
	SkippedRecords int                          `json:"skipped_records"`
}

// topCategoryCount bounds the dashboard's top-spend listing.
const topCategoryCount = 3

// DashboardService assembles read-side reports from stored transactions.
type DashboardService struct {
	store store.Store
}

func NewDashboardService(st store.Store) *DashboardService {
	return &DashboardService{store: st}
}

// Summary computes headline totals over the full transaction history.
func (s *DashboardService) Summary(ctx context.Context) (Summary, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load transactions: %w", err)
	}

	stats, skipped := core.AggregateMonthly(txs)

	out := Summary{SkippedRecords: skipped}
	categoryTotals := make(map[core.Category]decimal.Decimal)
	for _, stat := range stats {
		out.TotalIncome = out.TotalIncome.Add(stat.Income)
		out.TotalSpent = out.TotalSpent.Add(stat.Expenses)
		out.TransactionCount += stat.TransactionCount
		for cat, amount := range stat.ByCategory {
			categoryTotals[cat] = categoryTotals[cat].Add(amount)
		}
	}
	out.NetSavings = out.TotalIncome.Sub(out.TotalSpent)
	out.SavingsRate, out.SavingsRateDefined = core.SavingsRate(out.TotalIncome, out.TotalSpent)
	out.TopCategories = topCategories(categoryTotals, topCategoryCount)
	return out, nil
}

// MonthlyStats returns the per-month rollups in calendar order.
func (s *DashboardService) MonthlyStats(ctx context.Context) (MonthlyReport, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("load transactions: %w", err)
	}
	stats, skipped := core.AggregateMonthly(txs)
	report := MonthlyReport{
		Months:         stats,
		Order:          core.SortedMonths(stats),
		SkippedRecords: skipped,
	}
	if trend, ok := core.SpendingTrend(stats); ok {
		report.Trend = &trend
	}
	return report, nil
}

// Alerts evaluates the stored budget against the month containing now.
func (s *DashboardService) Alerts(ctx context.Context, now time.Time) ([]core.Alert, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	budget, err := s.store.LoadBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	return core.CheckAlerts(txs, budget, now), nil
}

// SuggestedBudget proposes per-category limits from historical monthly
// averages. Categories with no history are omitted.
func (s *DashboardService) SuggestedBudget(ctx context.Context) (core.Budget, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	stats, _ := core.AggregateMonthly(txs)
	avg := core.MonthlyAverages(stats)

	suggested := core.Budget{}
	for cat, amount := range avg.ByCategory {
		suggested[cat] = amount.Round(2)
	}
	return suggested, nil
}

// GoalProgress pairs a stored goal with its completion percentage.
type GoalProgress struct {
	core.Goal
	Percent decimal.Decimal `json:"percent"`
}

// Goals returns the stored goals with progress computed.
func (s *DashboardService) Goals(ctx context.Context) ([]GoalProgress, error) {
	goals, err := s.store.LoadGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress{Goal: g, Percent: g.Progress()})
	}
	return out, nil
}

func topCategories(totals map[core.Category]decimal.Decimal, n int) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
