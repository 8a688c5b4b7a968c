package ledger

import (
	"fmt"

	"github.com/billfold-dev/billfold/internal/model"
)

// ValidationError describes a single output-invariant violation.
type ValidationError struct {
	Index       int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Description)
}

// legacy category sentinels from the statement sources; they must never
// survive reconciliation.
var sentinelCategories = []string{"__FAMILY_CARD__", "__REPAYMENT__"}

// ValidateLedger enforces the final-output invariants on a merged
// transaction list: no transient records, non-negative amounts, a settled
// type on every record, and transfer_to set iff the record is a transfer.
func ValidateLedger(txns []model.Transaction) []ValidationError {
	var errs []ValidationError

	for i, t := range txns {
		if t.Transient() {
			errs = append(errs, ValidationError{i, fmt.Sprintf("transient %s marker in output", t.Marker.Kind)})
		}
		if t.Amount.IsNegative() {
			errs = append(errs, ValidationError{i, fmt.Sprintf("negative amount %s", t.Amount)})
		}
		switch t.Type {
		case model.TypeExpense, model.TypeIncome, model.TypeTransfer:
		default:
			errs = append(errs, ValidationError{i, fmt.Sprintf("unsettled type %q", t.Type)})
		}
		if t.Type == model.TypeTransfer && t.TransferTo == "" {
			errs = append(errs, ValidationError{i, "transfer without destination account"})
		}
		if t.Type != model.TypeTransfer && t.TransferTo != "" {
			errs = append(errs, ValidationError{i, fmt.Sprintf("non-transfer with destination %q", t.TransferTo)})
		}
		for _, sentinel := range sentinelCategories {
			if t.Category == sentinel {
				errs = append(errs, ValidationError{i, fmt.Sprintf("sentinel category %s in output", sentinel)})
			}
		}
	}
	return errs
}
