package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:   "01/15/2025",
		Vendor: "Vons",
		Amount: decimal.NewFromInt(42),
		Type:   TypeExpense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bads := []Transaction{
		{Date: "2025-01-15", Vendor: "Vons", Amount: decimal.NewFromInt(1), Type: TypeExpense}, // wrong layout
		{Date: "01/15/2025", Vendor: "  ", Amount: decimal.NewFromInt(1), Type: TypeExpense},
		{Date: "01/15/2025", Vendor: "Vons", Amount: decimal.Zero, Type: TypeExpense},
		{Date: "01/15/2025", Vendor: "Vons", Amount: decimal.NewFromInt(-5), Type: TypeExpense},
		{Date: "01/15/2025", Vendor: "Vons", Amount: decimal.NewFromInt(1), Type: "Transfer"},
	}
	for i, bad := range bads {
		if err := bad.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		CategoryGroceries: decimal.NewFromInt(500),
		CategoryGasFuel:   decimal.Zero, // zero limit is allowed (no limit)
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := Budget{CategoryGroceries: decimal.NewFromInt(-1)}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative limit")
	}
}

func TestBudgetTotal(t *testing.T) {
	b := Budget{
		CategoryGroceries: decimal.NewFromInt(500),
		CategoryDiningOut: decimal.NewFromInt(200),
	}
	if !b.Total().Equal(decimal.NewFromInt(700)) {
		t.Fatalf("total = %s, want 700", b.Total())
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"01/15/2025", true},
		{"12/31/2024", true},
		{" 06/01/2025 ", true},
		{"13/01/2025", false},
		{"2025-01-15", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDate(%q) expected error", tc.in)
		}
	}
}
