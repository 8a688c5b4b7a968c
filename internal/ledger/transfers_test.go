package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold-dev/billfold/internal/config"
	"github.com/billfold-dev/billfold/internal/model"
)

func newIdentifier() *TransferIdentifier {
	cfg := config.Default()
	return NewTransferIdentifier(defaultAccounts(), cfg.Transfers.ExemptCategories)
}

func TestTransfers_TargetedMatch(t *testing.T) {
	// Debit outflow naming a bank, credit inflow on that bank's card:
	// both legs fold into one transfer.
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "转账 中信银行信用卡还款", "", "200.00"),
		income("2025-11-02", "中信信用卡", "还款到账", "", "200.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Matched)
	assert.Zero(t, stats.Synthesized)
	require.Len(t, out, 1)

	tr := out[0]
	assert.Equal(t, model.TypeTransfer, tr.Type)
	assert.Equal(t, "农业银行", tr.Account)
	assert.Equal(t, "中信信用卡", tr.TransferTo)
	assert.True(t, tr.Amount.Equal(dec("200.00")))
	assert.Equal(t, transferCategory, tr.Category)
	assert.Equal(t, subRepayment, tr.Subcategory)
}

func TestTransfers_TargetedWrongDestinationAccount(t *testing.T) {
	// Keyword says 中信 but the only inflow is on 招商: the targeted leg
	// must not take it; it falls back to single-leg synthesis instead.
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "中信信用卡还款", "", "200.00"),
		income("2025-11-02", "招商信用卡", "还款到账", "", "200.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Zero(t, stats.Matched)
	assert.Equal(t, 1, stats.Synthesized)
	require.Len(t, out, 2)

	// The untouched credit inflow survives; the transfer targets 中信.
	var transfer *model.Transaction
	for i := range out {
		if out[i].Type == model.TypeTransfer {
			transfer = &out[i]
		}
	}
	require.NotNil(t, transfer)
	assert.Equal(t, "中信信用卡", transfer.TransferTo)
}

func TestTransfers_DateWindowBoundary(t *testing.T) {
	within := []model.Transaction{
		expense("2025-11-01", "农业银行", "中信还款", "", "200.00"),
		income("2025-11-04", "中信信用卡", "还款到账", "", "200.00"), // 3 days
	}
	_, stats := newIdentifier().Run(within)
	assert.Equal(t, 1, stats.Matched)

	beyond := []model.Transaction{
		expense("2025-11-01", "农业银行", "中信还款", "", "200.00"),
		income("2025-11-05", "中信信用卡", "还款到账", "", "200.00"), // 4 days
	}
	_, stats = newIdentifier().Run(beyond)
	assert.Zero(t, stats.Matched)
	assert.Equal(t, 1, stats.Synthesized, "targeted leg still becomes a transfer")
}

func TestTransfers_UntargetedFlaggedMatchesAnyCredit(t *testing.T) {
	// Cross-bank repayment wording with no specific target keyword: the
	// outflow may pair with any credit-style inflow on amount and date.
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "信用卡还款", "", "300.00"),
		income("2025-11-02", "浦发信用卡", "还款到账", "", "300.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Matched)
	require.Len(t, out, 1)
	assert.Equal(t, "浦发信用卡", out[0].TransferTo)
}

func TestTransfers_UntargetedFallbackPlaceholder(t *testing.T) {
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "信用卡还款", "", "300.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Synthesized)
	require.Len(t, out, 1)
	assert.Equal(t, model.TypeTransfer, out[0].Type)
	assert.Equal(t, genericTransferTarget, out[0].TransferTo)
}

func TestTransfers_WalletDestinationGetsTopUpSubcategory(t *testing.T) {
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "花呗还款", "", "150.00"),
		income("2025-11-01", "花呗", "还款入账", "", "150.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Matched)
	require.Len(t, out, 1)
	assert.Equal(t, subTopUp, out[0].Subcategory)
	assert.Equal(t, "花呗", out[0].TransferTo)
}

func TestTransfers_RepaymentMarkerConsumed(t *testing.T) {
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "中信还款", "", "200.00"),
		repaymentMarker("2025-11-02", "中信信用卡", "200.00"),
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Matched)
	require.Len(t, out, 1)
	assert.Equal(t, model.TypeTransfer, out[0].Type)
	assert.False(t, out[0].Transient())
}

func TestTransfers_UnmatchedRepaymentMarkerRemoved(t *testing.T) {
	txns := []model.Transaction{
		repaymentMarker("2025-11-02", "中信信用卡", "200.00"),
		expense("2025-11-05", "微信", "超市购物", "", "66.00"),
	}

	out, _ := newIdentifier().Run(txns)
	require.Len(t, out, 1)
	assert.Equal(t, "微信", out[0].Account, "marker never appears standalone")
}

func TestTransfers_ExemptCategoryExcluded(t *testing.T) {
	// A mortgage payment mentions 还款 but must not become a transfer.
	mortgage := expense("2025-11-01", "农业银行", "住房贷款还款", "", "5000.00")
	mortgage.Category = "住房贷款"
	mortgage.Subcategory = "房贷"

	out, stats := newIdentifier().Run([]model.Transaction{mortgage})
	assert.Zero(t, stats.Matched)
	assert.Zero(t, stats.Synthesized)
	require.Len(t, out, 1)
	assert.Equal(t, model.TypeExpense, out[0].Type)
}

func TestTransfers_NonDebitAccountNotASource(t *testing.T) {
	txns := []model.Transaction{
		expense("2025-11-01", "微信", "信用卡还款", "", "200.00"),
	}
	out, stats := newIdentifier().Run(txns)
	assert.Zero(t, stats.Synthesized)
	require.Len(t, out, 1)
	assert.Equal(t, model.TypeExpense, out[0].Type)
}

func TestTransfers_GreedyFirstFit(t *testing.T) {
	// Two inflows both qualify; the earlier one in build order is taken.
	first := income("2025-11-02", "中信信用卡", "还款到账 第一笔", "", "200.00")
	second := income("2025-11-03", "中信信用卡", "还款到账 第二笔", "", "200.00")
	txns := []model.Transaction{
		expense("2025-11-01", "农业银行", "中信还款", "", "200.00"),
		first,
		second,
	}

	out, stats := newIdentifier().Run(txns)
	assert.Equal(t, 1, stats.Matched)
	require.Len(t, out, 2)
	assert.Equal(t, "还款到账 第二笔", out[0].Description, "first-fit leaves the later inflow")
}
