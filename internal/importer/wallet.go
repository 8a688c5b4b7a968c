package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/billfold-dev/billfold/internal/classify"
	"github.com/billfold-dev/billfold/internal/model"
)

// WalletParser parses wallet export CSVs (WeChat/Alipay shaped). Bank-card
// funded spend rows are skipped to avoid double counting against the bank
// statement; family/proxy card rows become transient markers; bank-funded
// top-ups become wallet transfers.
type WalletParser struct {
	chain *classify.Chain
}

const (
	walletNumFields       = 8
	walletColDate         = 0
	walletColWallet       = 1
	walletColTradeType    = 2
	walletColCounterparty = 3
	walletColProduct      = 4
	walletColDirection    = 5
	walletColAmount       = 6
	walletColMethod       = 7
)

var (
	// family/proxy card wording across wallet vendors.
	familyCardWords = []string{"亲属卡", "亲友代付"}
	// top-up wording for bank-to-wallet moves.
	topUpWords = []string{"转入零钱通", "转入零钱", "充值"}
	// payment methods indicating the money actually left a bank card.
	bankMethodWords = []string{"银行", "信用卡"}

	debitMethodRe  = regexp.MustCompile(`^(.+?)储蓄卡`)
	creditMethodRe = regexp.MustCompile(`^(.+?)银行信用卡`)
)

// NewWalletParser creates a WalletParser with the wallet override rules
// ahead of the shared classifier.
func NewWalletParser(cls *classify.Classifier) *WalletParser {
	return &WalletParser{chain: classify.NewChain(cls, walletRules)}
}

// Format returns the parser name.
func (p *WalletParser) Format() string { return "wallet" }

// Parse reads a wallet CSV and returns Transactions.
func (p *WalletParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = walletNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading wallet CSV: %w", err)
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

func (p *WalletParser) parseRow(rec []string) (model.Transaction, bool, error) {
	amount, err := parseAmount(rec[walletColAmount])
	if err != nil {
		return model.Transaction{}, false, err
	}
	if amount.IsZero() {
		return model.Transaction{}, true, nil
	}

	date := strings.TrimSpace(rec[walletColDate])
	wallet := strings.TrimSpace(rec[walletColWallet])
	tradeType := strings.TrimSpace(rec[walletColTradeType])
	counterparty := strings.TrimSpace(rec[walletColCounterparty])
	product := strings.TrimSpace(rec[walletColProduct])
	direction := strings.TrimSpace(rec[walletColDirection])
	method := strings.TrimSpace(rec[walletColMethod])

	bankFunded := containsAny(method, bankMethodWords)

	// Family/proxy card spend: the real debit is on a bank statement.
	// Record a marker regardless of payment method; the merge matches it
	// against the bank card or promotes it when the bank is silent.
	if containsAny(tradeType, familyCardWords) && direction == "支出" {
		user := counterparty
		if user == "" || user == "/" {
			user = "亲属"
		}
		target := ""
		if bankFunded {
			target = extractBankName(method)
		}
		return model.Transaction{
			Date:        date,
			Account:     wallet,
			Amount:      amount,
			Description: strings.TrimSpace(tradeType + " " + user),
			Merchant:    user,
			Marker: &model.Marker{
				Kind:          model.MarkerFamilyCard,
				User:          user,
				TargetAccount: target,
			},
		}, false, nil
	}

	// Bank-funded top-up into the wallet: a transfer, not income.
	if containsAny(tradeType, topUpWords) && bankFunded {
		source := extractBankName(method)
		if source == "" {
			source = method
		}
		return model.Transaction{
			Date:        date,
			Category:    "转账",
			Subcategory: "充值",
			Account:     source,
			Amount:      amount,
			Type:        model.TypeTransfer,
			Description: tradeType,
			TransferTo:  wallet,
		}, false, nil
	}

	// Ordinary bank-card funded spend already shows up on the bank
	// statement; skip it here.
	if bankFunded && direction == "支出" {
		return model.Transaction{}, true, nil
	}

	var isIncome bool
	switch direction {
	case "收入":
		isIncome = true
	case "支出":
		isIncome = false
	default:
		// "/" rows are internal operations.
		return model.Transaction{}, true, nil
	}

	desc := tradeType
	if product != "" && product != "/" {
		desc += " " + product
	}
	if counterparty != "" && counterparty != "/" {
		desc = counterparty + " " + desc
	}

	category, subcategory := p.chain.Classify(desc, isIncome)
	txnType := model.TypeExpense
	merchant := counterparty
	if merchant == "/" {
		merchant = ""
	}
	if isIncome {
		txnType = model.TypeIncome
	}

	return model.Transaction{
		Date:        date,
		Category:    category,
		Subcategory: subcategory,
		Account:     wallet,
		Amount:      amount,
		Type:        txnType,
		Description: desc,
		Merchant:    merchant,
	}, false, nil
}

// walletRules are the wallet-specific overrides applied before the shared
// keyword tables.
func walletRules(description string, isIncome bool) (string, string, bool) {
	text := strings.ToLower(description)

	if isIncome {
		switch {
		case strings.Contains(text, "红包"):
			return "其他收入", "抢红包", true
		case strings.Contains(text, "退款"):
			return "其他收入", "退款", true
		case strings.Contains(text, "转账"):
			return "其他收入", "转账收入", true
		}
		return "", "", false
	}

	switch {
	case strings.Contains(text, "红包"), strings.Contains(text, "转账"):
		return "人情往来", "送礼请客", true
	case strings.Contains(text, "外卖"), strings.Contains(text, "美团"), strings.Contains(text, "饿了么"):
		return "食品酒水", "外卖", true
	case strings.Contains(text, "停车"):
		return "行车交通", "停车费", true
	case strings.Contains(text, "滴滴"), strings.Contains(text, "打车"):
		return "行车交通", "打车租车", true
	case strings.Contains(text, "话费"):
		return "交流通讯", "手机费", true
	}
	return "", "", false
}

// extractBankName maps a wallet payment-method string to an account name:
// "农业银行储蓄卡(1970)" -> "农业银行", "中信银行信用卡(2359)" -> "中信信用卡".
func extractBankName(method string) string {
	if m := creditMethodRe.FindStringSubmatch(method); m != nil {
		return m[1] + "信用卡"
	}
	if m := debitMethodRe.FindStringSubmatch(method); m != nil {
		return m[1]
	}
	return ""
}
