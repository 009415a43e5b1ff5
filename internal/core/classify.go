// Package core provides the pure domain logic for transaction
// classification, income detection, monthly aggregation, budget alerting
// and purchase-affordability simulation. Everything here is stateless and
// side-effect free; callers own persistence and transport.
package core

import "strings"

// Spending categories assigned by Classify. CategoryExcludePayment is a
// sentinel, not a spending label: it marks card payments and transfers
// that must be dropped from the expense ledger entirely.
const (
	CategoryGroceries      Category = "Groceries"
	CategoryDiningOut      Category = "Dining Out"
	CategoryGasFuel        Category = "Gas/Fuel"
	CategoryRentMortgage   Category = "Rent/Mortgage"
	CategoryEntertainment  Category = "Entertainment"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryHealthcare     Category = "Healthcare"
	CategoryUtilities      Category = "Utilities"
	CategoryTechAI         Category = "Tech/AI"
	CategoryInsurance      Category = "Insurance"
	CategoryExcludePayment Category = "ExcludePayment"
)

// DefaultCategory is returned when no rule matches a description.
const DefaultCategory = CategoryGroceries

type classifyRule struct {
	category Category
	keywords []string
}

// classifyRules is evaluated in order, first match wins. Order is load
// bearing: keyword sets overlap ("costco gas" matches both the Groceries
// and the Gas/Fuel rule, Groceries wins because it comes first), and the
// payment-exclusion rule must run before anything else because "autopay"
// and "automatic payment" contain substrings later rules would capture.
// Matching is plain substring containment, not word-boundary matching;
// "target" matching "targeted communications" is accepted behavior.
var classifyRules = []classifyRule{
	{CategoryExcludePayment, []string{"payment thank you", "autopay", "online payment", "automatic payment"}},
	{CategoryGroceries, []string{"costco", "walmart", "vons", "sprouts", "trader", "whole foods", "aldi", "safeway", "kroger"}},
	{CategoryDiningOut, []string{"restaurant", "mcdonald", "chick-fil-a", "chipotle", "shake shack", "starbucks", "coffee", "donut", "pizza", "taco", "burger", "sonic", "panda", "wingstop", "pollo", "subway", "kfc"}},
	{CategoryGasFuel, []string{"gas", "fuel", "shell", "chevron", "exxon", "mobil", "76", "arco"}},
	{CategoryRentMortgage, []string{"home depot", "lowes", "hardware", "ace hardware"}},
	{CategoryEntertainment, []string{"netflix", "cinema", "movie", "theater", "spotify", "hulu", "disney"}},
	{CategoryPersonalCare, []string{"ulta", "sephora", "salon", "spa", "marshalls", "anthropologie", "lululemon", "target", "tj maxx", "ross"}},
	{CategoryHealthcare, []string{"kaiser", "pharmacy", "cvs", "walgreens", "medical", "doctor", "health"}},
	{CategoryUtilities, []string{"burrtec", "waste", "water", "electric", "utility", "power", "gas company", "water district"}},
	{CategoryTechAI, []string{"paypal", "amazon", "best buy", "apple", "microsoft", "google"}},
	{CategoryInsurance, []string{"dmv", "registration", "towing", "auto", "insurance", "geico", "state farm"}},
}

// Classify maps a free-text transaction description to a category label.
// It is deterministic: the same description always yields the same
// category. Callers receiving CategoryExcludePayment must drop the record
// from expense totals rather than counting it.
func Classify(description string) Category {
	desc := strings.ToLower(description)
	for _, r := range classifyRules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.category
			}
		}
	}
	return DefaultCategory
}

// SpendingCategories lists the assignable spending labels in rule order,
// without the exclusion sentinel.
func SpendingCategories() []Category {
	out := make([]Category, 0, len(classifyRules)-1)
	for _, r := range classifyRules {
		if r.category == CategoryExcludePayment {
			continue
		}
		out = append(out, r.category)
	}
	return out
}
