package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

// Alert thresholds. A projection alert fires when the linear month-end
// estimate exceeds the limit by more than ten percent.
var (
	dangerThreshold     = decimal.NewFromInt(100)
	warningThreshold    = decimal.NewFromInt(80)
	projectionHeadroom  = decimal.RequireFromString("1.1")
	projectionWindowDay = 14 // days remaining at or below which projection kicks in
)

type (
	AlertLevel string

	// Alert reports one budgeted category running hot in the current
	// month. Projected alerts carry the linearly extrapolated month-end
	// spend and use the projected percent; the extrapolation is a rough
	// point-in-time heuristic, not a forecast.
	Alert struct {
		Category       Category        `json:"category"`
		Level          AlertLevel      `json:"level"`
		Spent          decimal.Decimal `json:"spent"`
		Limit          decimal.Decimal `json:"limit"`
		Percent        decimal.Decimal `json:"percent"`
		Projected      bool            `json:"projected"`
		ProjectedSpend decimal.Decimal `json:"projected_spend"`
	}
)

// CheckAlerts compares current-month category spend against budget
// limits. Categories with a zero or absent limit are never alerted on.
// Alerts come back sorted descending by percent.
func CheckAlerts(txs []Transaction, budget Budget, now time.Time) []Alert {
	spent := currentMonthSpend(txs, now)

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysElapsed := now.Day()
	daysRemaining := daysInMonth - daysElapsed

	hundred := decimal.NewFromInt(100)

	var alerts []Alert
	for cat, limit := range budget {
		if limit.LessThanOrEqual(decimal.Zero) {
			continue
		}
		catSpent := spent[cat]
		percent := catSpent.Div(limit).Mul(hundred)

		switch {
		case percent.GreaterThanOrEqual(dangerThreshold):
			alerts = append(alerts, Alert{Category: cat, Level: AlertDanger, Spent: catSpent, Limit: limit, Percent: percent})
		case percent.GreaterThanOrEqual(warningThreshold):
			alerts = append(alerts, Alert{Category: cat, Level: AlertWarning, Spent: catSpent, Limit: limit, Percent: percent})
		case daysRemaining <= projectionWindowDay && daysElapsed > 0:
			projected := catSpent.Div(decimal.NewFromInt(int64(daysElapsed))).Mul(decimal.NewFromInt(int64(daysInMonth)))
			if projected.GreaterThan(limit.Mul(projectionHeadroom)) {
				alerts = append(alerts, Alert{
					Category:       cat,
					Level:          AlertWarning,
					Spent:          catSpent,
					Limit:          limit,
					Percent:        projected.Div(limit).Mul(hundred),
					Projected:      true,
					ProjectedSpend: projected,
				})
			}
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if c := alerts[i].Percent.Cmp(alerts[j].Percent); c != 0 {
			return c > 0
		}
		return alerts[i].Category < alerts[j].Category
	})
	return alerts
}

// currentMonthSpend sums expense transactions per category for the month
// containing now. Payment exclusions and unparsable dates fall out here
// the same way they do in aggregation.
func currentMonthSpend(txs []Transaction, now time.Time) map[Category]decimal.Decimal {
	currentKey := CurrentMonthKey(now)
	spent := make(map[Category]decimal.Decimal)
	for _, t := range txs {
		if t.Type != TypeExpense || t.Category == CategoryExcludePayment {
			continue
		}
		key, err := MonthKey(t.Date)
		if err != nil || key != currentKey {
			continue
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}
	return spent
}
