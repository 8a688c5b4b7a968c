package accounts

import (
	"strings"

	"github.com/billfold-dev/billfold/internal/config"
)

// Service provides in-memory classification of account names and
// keyword-based transfer-target lookup.
type Service struct {
	debit    map[string]bool
	credit   map[string]bool
	wallet   map[string]bool
	keywords []config.TransferKeyword
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		debit:    toSet(cfg.Accounts.Debit),
		credit:   toSet(cfg.Accounts.Credit),
		wallet:   toSet(cfg.Accounts.Wallet),
		keywords: cfg.Transfers.Keywords,
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// IsDebit reports whether name is a debit-style (funding source) account.
func (s *Service) IsDebit(name string) bool { return s.debit[name] }

// IsCredit reports whether name is a credit-card account.
func (s *Service) IsCredit(name string) bool { return s.credit[name] }

// IsWallet reports whether name is a wallet-style account.
func (s *Service) IsWallet(name string) bool { return s.wallet[name] }

// IsBank reports whether name is a bank instrument (debit or credit card).
func (s *Service) IsBank(name string) bool { return s.debit[name] || s.credit[name] }

// IsTransferDestination reports whether name can receive a transfer
// (credit cards and wallets).
func (s *Service) IsTransferDestination(name string) bool {
	return s.credit[name] || s.wallet[name]
}

// TransferTarget scans the ordered keyword table for the first keyword
// contained in the description. flagged is true when any keyword hit;
// target may still be empty for generic repayment wording.
func (s *Service) TransferTarget(description string) (target string, flagged bool) {
	if description == "" {
		return "", false
	}
	desc := strings.ToLower(description)
	for _, kw := range s.keywords {
		if kw.Keyword != "" && strings.Contains(desc, strings.ToLower(kw.Keyword)) {
			return kw.Target, true
		}
	}
	return "", false
}
