package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Goal is a savings target with a deadline. Current tracks how much has
// been put aside so far; it is updated by replacing the goal, the ledger
// does not feed it automatically.
type Goal struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
	Deadline string          `json:"deadline"` // MM/DD/YYYY
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return errors.New("empty goal name")
	}
	if len(g.Name) > 200 {
		return errors.New("goal name too long (max 200 characters)")
	}
	if g.Target.IsNegative() || g.Target.IsZero() {
		return errors.New("goal target must be positive")
	}
	if g.Current.IsNegative() {
		return errors.New("negative goal progress")
	}
	if _, err := ParseDate(g.Deadline); err != nil {
		return err
	}
	return nil
}

// Progress returns how far along the goal is as a percentage. A
// nonpositive target reports zero rather than dividing by it. The value
// can exceed 100 when the goal is overfunded.
func (g Goal) Progress() decimal.Decimal {
	if g.Target.IsNegative() || g.Target.IsZero() {
		return decimal.Zero
	}
	return g.Current.Div(g.Target).Mul(decimal.NewFromInt(100))
}
