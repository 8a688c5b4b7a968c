package ledger

import (
	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/model"
)

const (
	transferCategory = "转账"
	// subRepayment is the subcategory for transfers into credit cards.
	subRepayment = "还款"
	// subTopUp is the subcategory for transfers into wallet-style accounts.
	subTopUp = "充值"
	// genericTransferTarget is the placeholder destination for flagged
	// outflows that never matched a concrete credit-account inflow.
	genericTransferTarget = "信用卡"
)

// TransferIdentifier folds a debit-account outflow and the corresponding
// credit/wallet-account inflow into one synthesized transfer record.
type TransferIdentifier struct {
	accounts *accounts.Service
	exempt   map[string]bool
}

// NewTransferIdentifier creates a TransferIdentifier. Expenses whose
// category is in exemptCategories are never transfer candidates.
func NewTransferIdentifier(svc *accounts.Service, exemptCategories []string) *TransferIdentifier {
	exempt := make(map[string]bool, len(exemptCategories))
	for _, c := range exemptCategories {
		exempt[c] = true
	}
	return &TransferIdentifier{accounts: svc, exempt: exempt}
}

// TransferStats summarizes one identification run.
type TransferStats struct {
	Matched     int // both legs found and folded
	Synthesized int // single-leg transfers emitted without a destination match
}

type sourceLeg struct {
	idx      int
	target   string // keyword-derived destination, empty for generic wording
	targeted bool
}

// Run identifies transfers over the full transaction list. Matched legs are
// replaced by a synthesized transfer; flagged-but-unmatched outflows still
// become transfers (to the keyword target or the generic placeholder).
// Every repayment marker is removed from the output, matched or not.
func (ti *TransferIdentifier) Run(txns []model.Transaction) ([]model.Transaction, TransferStats) {
	var sources []sourceLeg
	var dests []int

	for i, t := range txns {
		if t.Marker != nil {
			// Repayment markers stand in for a credit-account inbound leg.
			if t.Marker.Kind == model.MarkerRepayment {
				dests = append(dests, i)
			}
			continue
		}
		switch t.Type {
		case model.TypeExpense:
			if !ti.accounts.IsDebit(t.Account) || ti.exempt[t.Category] {
				continue
			}
			if target, flagged := ti.accounts.TransferTarget(t.Description); flagged {
				sources = append(sources, sourceLeg{idx: i, target: target, targeted: target != ""})
			}
		case model.TypeIncome:
			if ti.accounts.IsTransferDestination(t.Account) {
				dests = append(dests, i)
			}
		}
	}

	removed := make(map[int]bool)
	var transfers []model.Transaction
	var stats TransferStats

	for _, src := range sources {
		expense := txns[src.idx]
		matched := false

		for _, di := range dests {
			if removed[di] {
				continue
			}
			income := txns[di]
			if src.targeted && income.Account != src.target {
				continue
			}
			if model.AmountsMatch(expense.Amount, income.Amount) &&
				model.DatesWithin(expense.Date, income.Date, 3) {
				transfers = append(transfers, ti.synthesize(expense, income.Account))
				removed[src.idx] = true
				removed[di] = true
				stats.Matched++
				matched = true
				break
			}
		}

		if !matched {
			target := src.target
			if target == "" {
				target = genericTransferTarget
			}
			transfers = append(transfers, ti.synthesize(expense, target))
			removed[src.idx] = true
			stats.Synthesized++
		}
	}

	result := make([]model.Transaction, 0, len(txns)+len(transfers))
	for i, t := range txns {
		if removed[i] {
			continue
		}
		// Unmatched repayment markers must never appear standalone.
		if t.Marker != nil && t.Marker.Kind == model.MarkerRepayment {
			continue
		}
		result = append(result, t)
	}
	result = append(result, transfers...)
	return result, stats
}

func (ti *TransferIdentifier) synthesize(src model.Transaction, target string) model.Transaction {
	sub := subRepayment
	if ti.accounts.IsWallet(target) {
		sub = subTopUp
	}
	return model.Transaction{
		Date:        src.Date,
		Category:    transferCategory,
		Subcategory: sub,
		Account:     src.Account,
		Amount:      src.Amount,
		Type:        model.TypeTransfer,
		Description: src.Description,
		TransferTo:  target,
	}
}
