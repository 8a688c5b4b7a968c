package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold-dev/billfold/internal/model"
)

const bankHeader = "date,account,description,merchant,direction,amount\n"

func parseBank(t *testing.T, rows string) []model.Transaction {
	t.Helper()
	svc, cls := newDeps()
	p := NewBankParser(svc, cls)
	txns, err := p.Parse(strings.NewReader(bankHeader + rows))
	require.NoError(t, err)
	return txns
}

func TestBankParser_ExpenseAndIncome(t *testing.T) {
	txns := parseBank(t,
		"2025-11-01,农业银行,美团外卖订单,美团,支出,35.50\n"+
			"2025-11-02,农业银行,工资入账,,收入,\"12,000.00\"\n")

	require.Len(t, txns, 2)

	assert.Equal(t, model.TypeExpense, txns[0].Type)
	assert.Equal(t, "农业银行", txns[0].Account)
	assert.Equal(t, "食品酒水", txns[0].Category)
	assert.Equal(t, "外卖", txns[0].Subcategory)
	assert.True(t, txns[0].Amount.Equal(dec(t, "35.50")))

	assert.Equal(t, model.TypeIncome, txns[1].Type)
	assert.Equal(t, "职业收入", txns[1].Category)
	assert.Equal(t, "工资", txns[1].Subcategory)
	assert.True(t, txns[1].Amount.Equal(dec(t, "12000.00")), "thousands separator stripped")
}

func TestBankParser_CreditRepaymentBecomesMarker(t *testing.T) {
	txns := parseBank(t, "2025-11-02,中信信用卡,信用卡还款,,收入,200.00\n")

	require.Len(t, txns, 1)
	require.True(t, txns[0].Transient())
	assert.Equal(t, model.MarkerRepayment, txns[0].Marker.Kind)
	assert.Equal(t, "中信信用卡", txns[0].Account)
}

func TestBankParser_DebitRepaymentStaysIncome(t *testing.T) {
	// Repayment wording on a debit account's inbound row is just income.
	txns := parseBank(t, "2025-11-02,农业银行,还款到账,,收入,200.00\n")

	require.Len(t, txns, 1)
	assert.False(t, txns[0].Transient())
	assert.Equal(t, model.TypeIncome, txns[0].Type)
}

func TestBankParser_SkipsZeroAndUnknownDirection(t *testing.T) {
	txns := parseBank(t,
		"2025-11-01,农业银行,零元行,,支出,0.00\n"+
			"2025-11-02,农业银行,对账行,,不计收支,5.00\n")
	assert.Empty(t, txns)
}

func TestBankParser_BadAmount(t *testing.T) {
	svc, cls := newDeps()
	p := NewBankParser(svc, cls)
	_, err := p.Parse(strings.NewReader(bankHeader + "2025-11-01,农业银行,x,,支出,abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestBankParser_EmptyFile(t *testing.T) {
	svc, cls := newDeps()
	p := NewBankParser(svc, cls)

	txns, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txns)

	txns, err = p.Parse(strings.NewReader(bankHeader))
	require.NoError(t, err)
	assert.Empty(t, txns)
}
