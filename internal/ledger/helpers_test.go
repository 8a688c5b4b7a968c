package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/config"
	"github.com/billfold-dev/billfold/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func defaultAccounts() *accounts.Service {
	return accounts.NewService(config.Default())
}

func expense(date, account, desc, merchant, amount string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Category:    "购物消费",
		Subcategory: "网购",
		Account:     account,
		Amount:      dec(amount),
		Type:        model.TypeExpense,
		Description: desc,
		Merchant:    merchant,
	}
}

func income(date, account, desc, merchant, amount string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Category:    "其他收入",
		Subcategory: "转账收入",
		Account:     account,
		Amount:      dec(amount),
		Type:        model.TypeIncome,
		Description: desc,
		Merchant:    merchant,
	}
}

func refund(date, account, merchant, amount string) model.Transaction {
	t := income(date, account, "退款 "+merchant, merchant, amount)
	t.Subcategory = "退款"
	return t
}

func familyMarker(date, wallet, user, targetBank, amount string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Account:     wallet,
		Amount:      dec(amount),
		Description: "亲属卡交易 " + user,
		Merchant:    user,
		Marker: &model.Marker{
			Kind:          model.MarkerFamilyCard,
			User:          user,
			TargetAccount: targetBank,
		},
	}
}

func repaymentMarker(date, creditAccount, amount string) model.Transaction {
	return model.Transaction{
		Date:        date,
		Account:     creditAccount,
		Amount:      dec(amount),
		Type:        model.TypeIncome,
		Description: "信用卡还款",
		Marker:      &model.Marker{Kind: model.MarkerRepayment},
	}
}
