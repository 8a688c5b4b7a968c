package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the settled direction of a transaction.
type Type string

const (
	TypeExpense  Type = "支出"
	TypeIncome   Type = "收入"
	TypeTransfer Type = "转账"
)

// MarkerKind distinguishes the cross-source hints wallet and credit-card
// parsers attach to transient records.
type MarkerKind string

const (
	// MarkerFamilyCard flags wallet spend made through a family/proxy card.
	// The real debit lives on a bank statement and must be re-attributed.
	MarkerFamilyCard MarkerKind = "family-card"
	// MarkerRepayment flags the inbound leg of a credit-card repayment.
	MarkerRepayment MarkerKind = "repayment"
)

// Marker carries matching hints across the source boundary. A transaction
// with a non-nil Marker is transient: it is always consumed or discarded by
// the merge pipeline and never appears in final output.
type Marker struct {
	Kind MarkerKind
	// User is the proxy payer label for family-card markers ("张颖").
	User string
	// TargetAccount is the bank account the marker expects to match.
	// Empty means any bank account qualifies.
	TargetAccount string
}

// Transaction is the unit of record flowing through the merge pipeline.
// Amount is a non-negative magnitude; direction is carried by Type.
type Transaction struct {
	Date        string // ISO YYYY-MM-DD, kept verbatim from the source
	Category    string
	Subcategory string
	Account     string // originating account; source account for transfers
	Amount      decimal.Decimal
	Type        Type
	Description string
	Merchant    string // counterpart name, preferred over Description for matching
	TransferTo  string // destination account, set iff Type == TypeTransfer
	Marker      *Marker
}

// Transient reports whether the record is an intermediate marker that must
// not survive into final output.
func (t Transaction) Transient() bool {
	return t.Marker != nil
}

// dateFormats accepted across statement sources.
var dateFormats = []string{"2006-01-02", "2006/01/02", "2006年01月02日"}

// ParseDate parses a transaction date. ok is false for malformed dates;
// such records never match and sort as the earliest possible date.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// AmountTolerance is the minor-unit rounding tolerance used by every
// matching stage.
var AmountTolerance = decimal.NewFromFloat(0.01)

// AmountsMatch reports whether two magnitudes are equal within AmountTolerance.
func AmountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountTolerance)
}

// DatesWithin reports whether two dates are at most days apart.
// Malformed dates never match.
func DatesWithin(a, b string, days int) bool {
	da, ok := ParseDate(a)
	if !ok {
		return false
	}
	db, ok := ParseDate(b)
	if !ok {
		return false
	}
	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(days)*24*time.Hour
}
