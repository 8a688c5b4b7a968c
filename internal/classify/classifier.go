package classify

import (
	"strings"

	"github.com/billfold-dev/billfold/internal/config"
)

// Fixed fallback categories when nothing matches.
const (
	DefaultExpenseCategory    = "其他杂项"
	DefaultExpenseSubcategory = "其他支出"
	DefaultIncomeCategory     = "其他收入"
	DefaultIncomeSubcategory  = "意外来钱"
)

// Rule is one source-specific classification override. ok is false when
// the rule does not decide, letting the chain fall through.
type Rule func(description string, isIncome bool) (category, subcategory string, ok bool)

// Classifier assigns (category, subcategory) by scanning ordered keyword
// tables. A subcategory matches when its name appears as a case-insensitive
// substring of the description; the first hit wins.
type Classifier struct {
	expense []config.CategoryEntry
	income  []config.CategoryEntry
}

// New creates a Classifier from keyword tables. Empty tables are valid:
// every input then falls through to the defaults.
func New(keywords config.KeywordsConfig) *Classifier {
	return &Classifier{expense: keywords.Expense, income: keywords.Income}
}

// Classify returns the category and subcategory for a description.
func (c *Classifier) Classify(description string, isIncome bool) (string, string) {
	if description == "" {
		return defaults(isIncome)
	}

	desc := strings.ToLower(description)
	table := c.expense
	if isIncome {
		table = c.income
	}

	for _, entry := range table {
		for _, sub := range entry.Subcategories {
			if sub != "" && strings.Contains(desc, strings.ToLower(sub)) {
				return entry.Category, sub
			}
		}
	}
	return defaults(isIncome)
}

func defaults(isIncome bool) (string, string) {
	if isIncome {
		return DefaultIncomeCategory, DefaultIncomeSubcategory
	}
	return DefaultExpenseCategory, DefaultExpenseSubcategory
}

// Chain applies source-specific override rules in priority order before
// falling back to the shared keyword-table classifier.
type Chain struct {
	rules      []Rule
	classifier *Classifier
}

// NewChain creates a Chain over a shared classifier.
func NewChain(classifier *Classifier, rules ...Rule) *Chain {
	return &Chain{rules: rules, classifier: classifier}
}

// Classify returns the first rule's decision, else the shared classifier's.
func (ch *Chain) Classify(description string, isIncome bool) (string, string) {
	for _, rule := range ch.rules {
		if cat, sub, ok := rule(description, isIncome); ok {
			return cat, sub
		}
	}
	return ch.classifier.Classify(description, isIncome)
}
