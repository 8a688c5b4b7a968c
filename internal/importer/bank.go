package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/classify"
	"github.com/billfold-dev/billfold/internal/model"
)

// BankParser parses normalized bank statement CSVs (debit cards and credit
// cards). Inbound rows on a credit card that carry repayment wording become
// transient repayment markers instead of income: they exist only so the
// merge can fold them into a transfer.
type BankParser struct {
	accounts *accounts.Service
	chain    *classify.Chain
}

const (
	bankNumFields    = 6
	bankColDate      = 0
	bankColAccount   = 1
	bankColDesc      = 2
	bankColMerchant  = 3
	bankColDirection = 4
	bankColAmount    = 5
)

// repayment wording on credit-card inbound rows.
var repaymentWords = []string{"还款", "repayment"}

// NewBankParser creates a BankParser.
func NewBankParser(svc *accounts.Service, cls *classify.Classifier) *BankParser {
	return &BankParser{accounts: svc, chain: classify.NewChain(cls)}
}

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Parse reads a bank CSV and returns Transactions.
func (p *BankParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = bankNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bank CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, skip, err := p.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if skip {
			continue
		}
		txns = append(txns, t)
	}
	return txns, nil
}

func (p *BankParser) parseRow(rec []string) (model.Transaction, bool, error) {
	amount, err := parseAmount(rec[bankColAmount])
	if err != nil {
		return model.Transaction{}, false, err
	}
	if amount.IsZero() {
		return model.Transaction{}, true, nil
	}

	account := strings.TrimSpace(rec[bankColAccount])
	desc := strings.TrimSpace(rec[bankColDesc])
	merchant := strings.TrimSpace(rec[bankColMerchant])
	date := strings.TrimSpace(rec[bankColDate])

	var isIncome bool
	switch strings.TrimSpace(rec[bankColDirection]) {
	case "收入":
		isIncome = true
	case "支出":
		isIncome = false
	default:
		return model.Transaction{}, true, nil
	}

	// Credit-card inbound repayments become markers for the merge.
	if isIncome && p.accounts.IsCredit(account) && containsAny(desc, repaymentWords) {
		return model.Transaction{
			Date:        date,
			Account:     account,
			Amount:      amount,
			Type:        model.TypeIncome,
			Description: desc,
			Merchant:    merchant,
			Marker:      &model.Marker{Kind: model.MarkerRepayment},
		}, false, nil
	}

	category, subcategory := p.chain.Classify(desc, isIncome)
	txnType := model.TypeExpense
	if isIncome {
		txnType = model.TypeIncome
	}

	return model.Transaction{
		Date:        date,
		Category:    category,
		Subcategory: subcategory,
		Account:     account,
		Amount:      amount,
		Type:        txnType,
		Description: desc,
		Merchant:    merchant,
	}, false, nil
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// parseAmount parses a statement amount, tolerating currency symbols and
// thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "¥")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
