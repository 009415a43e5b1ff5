package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Income-record kinds reported by DetectIncome.
const (
	IncomeKindDetected    = "Detected Income"
	IncomeKindLargeCredit = "Large Credit"
)

type (
	// LineItem is a raw statement line as produced by extraction, before
	// it becomes a Transaction.
	LineItem struct {
		Description string
		Amount      decimal.Decimal
		Type        TxType
	}

	// IncomeRecord is one detected income source. Description and amount
	// are preserved from the originating line item.
	IncomeRecord struct {
		Source string          `json:"source"`
		Amount decimal.Decimal `json:"amount"`
		Kind   string          `json:"kind"`
	}
)

// incomeKeywords flag a line item as income by description alone. "dd" is
// a plain substring like the rest, which over-matches (e.g. "address");
// preserved as observed.
var incomeKeywords = []string{"payroll", "direct deposit", "dd", "salary", "wages", "paycheck", "payment thank you", "automatic payment"}

// typeKeywords mark a raw description as income-typed at import time.
var typeKeywords = []string{"payment", "thank you", "automatic payment", "direct deposit", "payroll"}

// largeCreditThreshold is the magnitude above which an income-typed item
// counts as a paycheck-sized credit.
var largeCreditThreshold = decimal.NewFromInt(1000)

// DetectIncome flags income line items. Two rule families are evaluated
// per item, first match wins: the keyword family, then the
// income-typed-and-large heuristic. No deduplication beyond that.
func DetectIncome(items []LineItem) []IncomeRecord {
	var out []IncomeRecord
	for _, item := range items {
		desc := strings.ToLower(item.Description)

		if containsAny(desc, incomeKeywords) {
			source := item.Description
			if source == "" {
				source = "Unknown"
			}
			out = append(out, IncomeRecord{Source: source, Amount: item.Amount, Kind: IncomeKindDetected})
			continue
		}

		if item.Type == TypeIncome && item.Amount.GreaterThan(largeCreditThreshold) {
			source := item.Description
			if source == "" {
				source = "Large Deposit"
			}
			out = append(out, IncomeRecord{Source: source, Amount: item.Amount, Kind: IncomeKindLargeCredit})
		}
	}
	return out
}

// DetectType tags a raw description as expense or income.
func DetectType(description string) TxType {
	if containsAny(strings.ToLower(description), typeKeywords) {
		return TypeIncome
	}
	return TypeExpense
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
