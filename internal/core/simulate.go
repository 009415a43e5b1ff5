package core

import "github.com/shopspring/decimal"

type (
	// PurchaseInput describes a hypothetical future purchase with optional
	// financing. FinanceMonths of zero means the remainder after the down
	// payment is due immediately.
	PurchaseInput struct {
		TotalCost       decimal.Decimal `json:"total_cost"`
		DownPayment     decimal.Decimal `json:"down_payment"`
		FinanceMonths   int             `json:"finance_months"`
		MonthlyIncome   decimal.Decimal `json:"monthly_income"`
		MonthlyBudgeted decimal.Decimal `json:"monthly_budgeted"`
		NetSavings      decimal.Decimal `json:"net_savings"`
	}

	// ImpactReport is a pure function of its input: no stored state, no
	// side effects. Shortfall fields are zero when no shortfall exists.
	// When Indeterminate is set the amortization fields are meaningless
	// because there is no monthly surplus to amortize against.
	ImpactReport struct {
		Remaining        decimal.Decimal `json:"remaining"`
		MonthlyPayment   decimal.Decimal `json:"monthly_payment"`
		AvailableMonthly decimal.Decimal `json:"available_monthly"`

		DownPaymentShortfall decimal.Decimal `json:"down_payment_shortfall"`
		MonthlyShortfall     decimal.Decimal `json:"monthly_shortfall"`
		FullyAffordable      bool            `json:"fully_affordable"`

		// Recovery suggestions, populated only on a monthly shortfall.
		AdjustedDownPayment decimal.Decimal `json:"adjusted_down_payment"`
		MinFinanceMonths    int             `json:"min_finance_months"`

		Indeterminate bool `json:"indeterminate"`
	}
)

// SimulatePurchase reports whether a purchase fits within net savings and
// the monthly surplus (income minus budgeted).
//
// A zero financing term folds the whole remainder into the down-payment
// check: the lump sum is effectively due up front, so the shortfall is
// measured against savings and no monthly check applies.
func SimulatePurchase(in PurchaseInput) ImpactReport {
	report := ImpactReport{
		Remaining:        in.TotalCost.Sub(in.DownPayment),
		AvailableMonthly: in.MonthlyIncome.Sub(in.MonthlyBudgeted),
	}

	effectiveDown := in.DownPayment
	if in.FinanceMonths > 0 {
		report.MonthlyPayment = report.Remaining.Div(decimal.NewFromInt(int64(in.FinanceMonths)))
	} else {
		report.MonthlyPayment = report.Remaining
		effectiveDown = in.TotalCost
	}

	if shortfall := effectiveDown.Sub(in.NetSavings); shortfall.IsPositive() {
		report.DownPaymentShortfall = shortfall
	}

	if in.FinanceMonths > 0 {
		if shortfall := report.MonthlyPayment.Sub(report.AvailableMonthly); shortfall.IsPositive() {
			report.MonthlyShortfall = shortfall
			if report.AvailableMonthly.LessThanOrEqual(decimal.Zero) {
				// No surplus at all: no finite financing term or down
				// payment adjustment can make the numbers work.
				report.Indeterminate = true
			} else {
				report.AdjustedDownPayment = in.DownPayment.Add(shortfall.Mul(decimal.NewFromInt(int64(in.FinanceMonths))))
				report.MinFinanceMonths = int(report.Remaining.Div(report.AvailableMonthly).Ceil().IntPart())
			}
		}
	}

	report.FullyAffordable = report.DownPaymentShortfall.IsZero() &&
		report.MonthlyShortfall.IsZero() &&
		!report.Indeterminate
	return report
}
