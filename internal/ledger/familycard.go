package ledger

import (
	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/classify"
	"github.com/billfold-dev/billfold/internal/model"
)

// FamilyCardAttributor re-attributes wallet family-card markers onto the
// bank-card debit that actually funded the spend.
type FamilyCardAttributor struct {
	accounts *accounts.Service
}

// NewFamilyCardAttributor creates a FamilyCardAttributor.
func NewFamilyCardAttributor(svc *accounts.Service) *FamilyCardAttributor {
	return &FamilyCardAttributor{accounts: svc}
}

// FamilyStats summarizes one attribution run.
type FamilyStats struct {
	Matched  int // markers re-attributed onto a bank-card record
	Promoted int // markers promoted to standalone wallet expenses
	Dropped  int // markers discarded (bank data exists, line not found)
}

// Run consumes every family-card marker. A marker matches a bank-card
// record on exact date and amount within tolerance; if the marker names a
// target account the candidate must be on it. The matched record is
// recategorized under the proxy payer and the marker discarded. A marker
// with no match is discarded when its target bank has any data in the
// batch, and promoted to a standalone wallet expense otherwise.
func (fa *FamilyCardAttributor) Run(txns []model.Transaction) ([]model.Transaction, FamilyStats) {
	var stats FamilyStats
	claimed := make(map[int]bool)
	drop := make(map[int]bool)

	for mi, t := range txns {
		if t.Marker == nil || t.Marker.Kind != model.MarkerFamilyCard {
			continue
		}
		marker := t.Marker

		matchIdx := -1
		for j, cand := range txns {
			if drop[j] || claimed[j] || cand.Transient() {
				continue
			}
			// Only bank-card records qualify, never the wallet itself.
			if !fa.accounts.IsBank(cand.Account) || cand.Type == model.TypeTransfer {
				continue
			}
			if marker.TargetAccount != "" && cand.Account != marker.TargetAccount {
				continue
			}
			if !sameDay(t.Date, cand.Date) {
				continue
			}
			if !model.AmountsMatch(t.Amount, cand.Amount) {
				continue
			}
			matchIdx = j
			break
		}

		if matchIdx >= 0 {
			txns[matchIdx].Category = classify.DefaultExpenseCategory
			txns[matchIdx].Subcategory = marker.User + "支出"
			txns[matchIdx].Type = model.TypeExpense
			claimed[matchIdx] = true
			drop[mi] = true
			stats.Matched++
			continue
		}

		if fa.bankHasData(txns, marker.TargetAccount) {
			// The statement exists but this line was not found; discard
			// rather than double count.
			drop[mi] = true
			stats.Dropped++
			continue
		}

		// The target bank has no data at all: promote the marker to a
		// standalone expense on the wallet's own account.
		txns[mi].Category = classify.DefaultExpenseCategory
		txns[mi].Subcategory = marker.User + "支出"
		txns[mi].Type = model.TypeExpense
		txns[mi].Marker = nil
		stats.Promoted++
	}

	result := make([]model.Transaction, 0, len(txns))
	for i, t := range txns {
		if !drop[i] {
			result = append(result, t)
		}
	}
	return result, stats
}

// bankHasData reports whether the target bank (or, for the wildcard, any
// bank account) has any settled transactions in the batch.
func (fa *FamilyCardAttributor) bankHasData(txns []model.Transaction, target string) bool {
	for _, t := range txns {
		if t.Transient() {
			continue
		}
		if target == "" {
			if fa.accounts.IsBank(t.Account) {
				return true
			}
			continue
		}
		if t.Account == target {
			return true
		}
	}
	return false
}

// sameDay reports exact calendar-date equality. Malformed dates never match.
func sameDay(a, b string) bool {
	da, ok := model.ParseDate(a)
	if !ok {
		return false
	}
	db, ok := model.ParseDate(b)
	if !ok {
		return false
	}
	return da.Equal(db)
}
