package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level billfold.yaml configuration.
type Config struct {
	Keywords  KeywordsConfig  `yaml:"keywords"`
	Accounts  AccountsConfig  `yaml:"accounts"`
	Transfers TransfersConfig `yaml:"transfers"`
}

// KeywordsConfig holds the expense and income classification tables.
// Tables are lists, not maps: declaration order is the match order.
type KeywordsConfig struct {
	Expense []CategoryEntry `yaml:"expense"`
	Income  []CategoryEntry `yaml:"income"`
}

// CategoryEntry maps one category to its ordered subcategories. A
// subcategory name doubles as its own match keyword.
type CategoryEntry struct {
	Category      string   `yaml:"category"`
	Subcategories []string `yaml:"subcategories"`
}

// AccountsConfig classifies account names by instrument style.
type AccountsConfig struct {
	Debit  []string `yaml:"debit"`  // funding sources (储蓄卡)
	Credit []string `yaml:"credit"` // credit cards
	Wallet []string `yaml:"wallet"` // wallets and wallet credit lines
}

// TransfersConfig controls transfer identification.
type TransfersConfig struct {
	// Keywords maps a description fragment to a destination account.
	// An empty target means "some credit card, unknown which".
	Keywords []TransferKeyword `yaml:"keywords"`
	// ExemptCategories lists expense categories that are never transfer
	// candidates even when the description carries transfer wording
	// (mortgage payments, mostly).
	ExemptCategories []string `yaml:"exempt_categories"`
}

// TransferKeyword is one keyword-to-destination rule.
type TransferKeyword struct {
	Keyword string `yaml:"keyword"`
	Target  string `yaml:"target"`
}

// Load reads a billfold.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads a config file, degrading on any error instead of
// failing the run. The account roster and transfer keywords fall back to
// the built-ins, but the keyword tables degrade to empty so every
// description falls through to the classifier's fixed defaults.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.Keywords = KeywordsConfig{}
	}
	return cfg
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration: the stock keyword tables and
// the account roster the statement parsers know about.
func Default() *Config {
	return &Config{
		Keywords: KeywordsConfig{
			Expense: []CategoryEntry{
				{Category: "食品酒水", Subcategories: []string{"早午晚餐", "外卖", "买菜", "水果零食", "烟酒茶"}},
				{Category: "购物消费", Subcategories: []string{"网购", "超市", "服饰", "数码"}},
				{Category: "行车交通", Subcategories: []string{"打车租车", "停车费", "加油", "公交地铁"}},
				{Category: "交流通讯", Subcategories: []string{"手机费", "宽带"}},
				{Category: "居家物业", Subcategories: []string{"水电煤", "物业", "房租"}},
				{Category: "住房贷款", Subcategories: []string{"房贷"}},
				{Category: "医疗保健", Subcategories: []string{"药品", "挂号"}},
				{Category: "人情往来", Subcategories: []string{"送礼请客", "红包"}},
			},
			Income: []CategoryEntry{
				{Category: "职业收入", Subcategories: []string{"工资", "奖金"}},
				{Category: "理财", Subcategories: []string{"理财收益", "利息"}},
				{Category: "其他收入", Subcategories: []string{"退款", "转账收入"}},
			},
		},
		Accounts: AccountsConfig{
			Debit:  []string{"农业银行", "宁波银行", "建行储蓄卡", "工商储蓄卡", "招商储蓄卡", "农村信用合作社"},
			Credit: []string{"中信信用卡", "浦发信用卡", "招商信用卡", "建行信用卡"},
			Wallet: []string{"微信", "支付宝", "花呗", "京东白条"},
		},
		Transfers: TransfersConfig{
			Keywords: []TransferKeyword{
				{Keyword: "中信", Target: "中信信用卡"},
				{Keyword: "招商", Target: "招商信用卡"},
				{Keyword: "浦发", Target: "浦发信用卡"},
				{Keyword: "建行信用", Target: "建行信用卡"},
				{Keyword: "建行卡", Target: "建行信用卡"},
				{Keyword: "花呗", Target: "花呗"},
				{Keyword: "京东白条", Target: "京东白条"},
				{Keyword: "信用卡还款", Target: ""},
				{Keyword: "还款", Target: ""},
			},
			ExemptCategories: []string{"住房贷款"},
		},
	}
}
