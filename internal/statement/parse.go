// Package statement turns document-extraction results into raw line items
// and decides which statement pages are worth extracting at all.
package statement

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"finrecon/internal/core"
)

// ErrMalformed marks extraction documents that can never be parsed.
// Retrying does not help; callers draining a queue should drop these
// instead of requeueing them.
var ErrMalformed = errors.New("malformed extraction")

// sectionHeaders are statement section titles that arrive as line items
// from extraction but carry no transaction.
var sectionHeaders = map[string]struct{}{
	"PURCHASES":     {},
	"CASH ADVANCES": {},
	"PAYMENTS":      {},
}

type extractionDoc struct {
	Inference struct {
		Result struct {
			Fields struct {
				LineItems struct {
					Items []extractionItem `json:"items"`
				} `json:"line_items"`
			} `json:"fields"`
		} `json:"result"`
	} `json:"inference"`
}

type extractionItem struct {
	Fields struct {
		Description struct {
			Value string `json:"value"`
		} `json:"description"`
		TotalPrice struct {
			Value *json.Number `json:"value"`
		} `json:"total_price"`
	} `json:"fields"`
}

// ParseExtraction decodes an extraction result document and returns its
// usable line items. Section headers, empty descriptions and items with
// no amount are dropped. Amounts come back as absolute values; the sign
// carried by the statement is not trustworthy, the item type is derived
// from the description instead.
func ParseExtraction(data []byte) ([]core.LineItem, error) {
	var doc extractionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse extraction: %w: %w", ErrMalformed, err)
	}

	var items []core.LineItem
	for _, raw := range doc.Inference.Result.Fields.LineItems.Items {
		desc := raw.Fields.Description.Value
		if desc == "" {
			continue
		}
		if _, header := sectionHeaders[desc]; header {
			continue
		}
		if raw.Fields.TotalPrice.Value == nil {
			continue
		}
		amount, err := decimal.NewFromString(raw.Fields.TotalPrice.Value.String())
		if err != nil {
			return nil, fmt.Errorf("parse extraction: amount for %q: %w: %w", desc, ErrMalformed, err)
		}
		items = append(items, core.LineItem{
			Description: desc,
			Amount:      amount.Abs(),
			Type:        core.DetectType(desc),
		})
	}
	return items, nil
}
