package ledger

import (
	"strings"

	"github.com/billfold-dev/billfold/internal/model"
)

// refund detection keywords, checked against description, category and
// subcategory.
var refundKeywords = []string{"退款", "refund"}

func isRefund(t model.Transaction) bool {
	for _, field := range []string{t.Description, t.Category, t.Subcategory} {
		lower := strings.ToLower(field)
		for _, kw := range refundKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// ReconcileRefunds hedges refund income against prior expenses: a matched
// (expense, refund) pair cancels out and both records are removed. Matching
// is greedy first-fit in original build order.
//
// Pass 1 requires an equal normalized merchant key and an amount within
// tolerance. Pass 2 runs only for refunds whose raw merchant looks masked
// or personal, and matches on amount within tolerance plus a 30-day date
// window, ignoring merchant text.
//
// Returns the surviving records and the number of hedged pairs.
func ReconcileRefunds(txns []model.Transaction) ([]model.Transaction, int) {
	var expenses, refunds []int
	for i, t := range txns {
		if t.Transient() {
			continue
		}
		switch t.Type {
		case model.TypeExpense:
			expenses = append(expenses, i)
		case model.TypeIncome:
			if isRefund(t) {
				refunds = append(refunds, i)
			}
		}
	}

	removed := make(map[int]bool)
	pairs := 0

	// Pass 1: exact merchant-key match.
	for _, ri := range refunds {
		refund := txns[ri]
		key := NormalizeMerchant(refund.Merchant, refund.Description)
		if key == "" {
			continue
		}
		for _, ei := range expenses {
			if removed[ei] {
				continue
			}
			expense := txns[ei]
			if NormalizeMerchant(expense.Merchant, expense.Description) != key {
				continue
			}
			if model.AmountsMatch(refund.Amount, expense.Amount) {
				removed[ri] = true
				removed[ei] = true
				pairs++
				break
			}
		}
	}

	// Pass 2: fuzzy match for masked/personal counterparties.
	for _, ri := range refunds {
		if removed[ri] {
			continue
		}
		refund := txns[ri]
		raw := refund.Merchant
		if raw == "" {
			raw = refund.Description
		}
		if !maskedOrPersonal(raw) {
			continue
		}
		for _, ei := range expenses {
			if removed[ei] {
				continue
			}
			expense := txns[ei]
			if model.AmountsMatch(refund.Amount, expense.Amount) &&
				model.DatesWithin(refund.Date, expense.Date, 30) {
				removed[ri] = true
				removed[ei] = true
				pairs++
				break
			}
		}
	}

	result := make([]model.Transaction, 0, len(txns))
	for i, t := range txns {
		if !removed[i] {
			result = append(result, t)
		}
	}
	return result, pairs
}
