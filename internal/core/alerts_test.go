package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// alertNow is early in a 31-day month so the projection window is closed
// unless a test opts in.
var alertNow = time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC)

func budgetOf(cat Category, limit int64) Budget {
	return Budget{cat: decimal.NewFromInt(limit)}
}

func TestCheckAlertsThresholds(t *testing.T) {
	cases := []struct {
		name      string
		spent     string
		limit     int64
		wantCount int
		wantLevel AlertLevel
	}{
		{"exactly 100 percent", "500", 500, 1, AlertDanger},
		{"over limit", "650", 500, 1, AlertDanger},
		{"exactly 80 percent", "400", 500, 1, AlertWarning},
		{"just under 80 percent", "399.5", 500, 0, ""},
		{"well under", "100", 500, 0, ""},
	}
	for _, tc := range cases {
		amount := decimal.RequireFromString(tc.spent)
		txs := []Transaction{{
			Date: "01/03/2025", Vendor: "Vons", Amount: amount,
			Category: CategoryGroceries, Type: TypeExpense,
		}}
		alerts := CheckAlerts(txs, budgetOf(CategoryGroceries, tc.limit), alertNow)
		if len(alerts) != tc.wantCount {
			t.Fatalf("%s: expected %d alerts, got %d", tc.name, tc.wantCount, len(alerts))
		}
		if tc.wantCount == 1 && alerts[0].Level != tc.wantLevel {
			t.Fatalf("%s: level = %q, want %q", tc.name, alerts[0].Level, tc.wantLevel)
		}
	}
}

func TestCheckAlertsZeroLimitDisabled(t *testing.T) {
	txs := []Transaction{{
		Date: "01/03/2025", Vendor: "Vons", Amount: decimal.NewFromInt(9999),
		Category: CategoryGroceries, Type: TypeExpense,
	}}
	budget := Budget{CategoryGroceries: decimal.Zero}
	if alerts := CheckAlerts(txs, budget, alertNow); len(alerts) != 0 {
		t.Fatalf("zero limit means no limit, got %d alerts", len(alerts))
	}
}

func TestCheckAlertsIgnoresOtherMonthsAndIncome(t *testing.T) {
	txs := []Transaction{
		{Date: "12/03/2024", Vendor: "Vons", Amount: decimal.NewFromInt(500), Category: CategoryGroceries, Type: TypeExpense},
		{Date: "01/03/2025", Vendor: "Employer", Amount: decimal.NewFromInt(500), Category: CategoryGroceries, Type: TypeIncome},
		{Date: "bad-date", Vendor: "Vons", Amount: decimal.NewFromInt(500), Category: CategoryGroceries, Type: TypeExpense},
	}
	if alerts := CheckAlerts(txs, budgetOf(CategoryGroceries, 500), alertNow); len(alerts) != 0 {
		t.Fatalf("only current-month expenses should count, got %d alerts", len(alerts))
	}
}

func TestCheckAlertsProjection(t *testing.T) {
	// January 20th: 11 days remain (<= 14), 20 elapsed. Spent 300 of 400
	// (75%, below the warning threshold) but the linear projection is
	// 300/20*31 = 465 > 400*1.1 = 440.
	now := time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{{
		Date: "01/10/2025", Vendor: "Vons", Amount: decimal.NewFromInt(300),
		Category: CategoryGroceries, Type: TypeExpense,
	}}
	alerts := CheckAlerts(txs, budgetOf(CategoryGroceries, 400), now)
	if len(alerts) != 1 {
		t.Fatalf("expected projection alert, got %d alerts", len(alerts))
	}
	a := alerts[0]
	if !a.Projected || a.Level != AlertWarning {
		t.Fatalf("expected projected warning, got %+v", a)
	}
	if !a.ProjectedSpend.Equal(decimal.NewFromInt(465)) {
		t.Fatalf("projected spend = %s, want 465", a.ProjectedSpend)
	}
	// Percent carried on a projection alert is the projected percent.
	if !a.Percent.Equal(decimal.RequireFromString("116.25")) {
		t.Fatalf("projected percent = %s, want 116.25", a.Percent)
	}
}

func TestCheckAlertsNoProjectionEarlyInMonth(t *testing.T) {
	// January 5th: 26 days remain, projection window closed even though
	// the run rate is far above the limit.
	txs := []Transaction{{
		Date: "01/02/2025", Vendor: "Vons", Amount: decimal.NewFromInt(300),
		Category: CategoryGroceries, Type: TypeExpense,
	}}
	if alerts := CheckAlerts(txs, budgetOf(CategoryGroceries, 400), alertNow); len(alerts) != 0 {
		t.Fatalf("projection must not fire with >14 days remaining, got %d alerts", len(alerts))
	}
}

func TestCheckAlertsExactlyOneAlertPerCategory(t *testing.T) {
	// At 100% late in the month both the danger threshold and the
	// projection condition hold; only the danger alert is emitted.
	now := time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{{
		Date: "01/10/2025", Vendor: "Vons", Amount: decimal.NewFromInt(500),
		Category: CategoryGroceries, Type: TypeExpense,
	}}
	alerts := CheckAlerts(txs, budgetOf(CategoryGroceries, 500), now)
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	if alerts[0].Level != AlertDanger || alerts[0].Projected {
		t.Fatalf("expected plain danger alert, got %+v", alerts[0])
	}
}

func TestCheckAlertsSortedByPercentDescending(t *testing.T) {
	txs := []Transaction{
		{Date: "01/03/2025", Vendor: "Vons", Amount: decimal.NewFromInt(450), Category: CategoryGroceries, Type: TypeExpense},
		{Date: "01/03/2025", Vendor: "Chipotle", Amount: decimal.NewFromInt(600), Category: CategoryDiningOut, Type: TypeExpense},
		{Date: "01/03/2025", Vendor: "Shell", Amount: decimal.NewFromInt(85), Category: CategoryGasFuel, Type: TypeExpense},
	}
	budget := Budget{
		CategoryGroceries: decimal.NewFromInt(500), // 90%
		CategoryDiningOut: decimal.NewFromInt(400), // 150%
		CategoryGasFuel:   decimal.NewFromInt(100), // 85%
	}
	alerts := CheckAlerts(txs, budget, alertNow)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].Percent.GreaterThan(alerts[i-1].Percent) {
			t.Fatalf("alerts not sorted descending by percent: %s before %s",
				alerts[i-1].Percent, alerts[i].Percent)
		}
	}
	if alerts[0].Category != CategoryDiningOut {
		t.Fatalf("expected hottest category first, got %q", alerts[0].Category)
	}
}

func TestCheckAlertsEmptyInputs(t *testing.T) {
	if alerts := CheckAlerts(nil, nil, alertNow); len(alerts) != 0 {
		t.Fatalf("no data should produce no alerts, got %d", len(alerts))
	}
}
