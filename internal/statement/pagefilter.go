package statement

import "regexp"

// Statement PDFs mix transaction tables with marketing and disclosure
// pages. Sending the whole document to extraction wastes the page quota,
// so pages are screened by token shape first.
var (
	datePattern   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	amountPattern = regexp.MustCompile(`\$?\d{1,3}(?:,\d{3})*\.\d{2}\b`)
)

const (
	minDateTokens   = 3
	minAmountTokens = 3
)

// TransactionPages returns the zero-based indexes of pages whose text
// looks like a transaction table: enough date-like and amount-like
// tokens together on the same page.
func TransactionPages(pages []string) []int {
	var keep []int
	for i, text := range pages {
		if looksLikeTransactions(text) {
			keep = append(keep, i)
		}
	}
	return keep
}

func looksLikeTransactions(text string) bool {
	dates := datePattern.FindAllString(text, minDateTokens)
	if len(dates) < minDateTokens {
		return false
	}
	amounts := amountPattern.FindAllString(text, minAmountTokens)
	return len(amounts) >= minAmountTokens
}
