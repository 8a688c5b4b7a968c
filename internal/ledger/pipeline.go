package ledger

import (
	"github.com/rs/zerolog"

	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/config"
	"github.com/billfold-dev/billfold/internal/model"
)

// Pipeline runs the reconciliation stages over a full transaction batch:
// refund hedging, transfer identification, family-card attribution, then a
// deterministic date sort. Each stage consumes the previous stage's output.
type Pipeline struct {
	transfers *TransferIdentifier
	family    *FamilyCardAttributor
	log       zerolog.Logger
}

// NewPipeline wires the stages from configuration.
func NewPipeline(cfg *config.Config, svc *accounts.Service, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		transfers: NewTransferIdentifier(svc, cfg.Transfers.ExemptCategories),
		family:    NewFamilyCardAttributor(svc),
		log:       log,
	}
}

// Stats summarizes one pipeline run.
type Stats struct {
	In       int
	Out      int
	Refunds  int
	Transfer TransferStats
	Family   FamilyStats
}

// Run executes the stages in order and returns the merged, sorted ledger.
func (p *Pipeline) Run(txns []model.Transaction) ([]model.Transaction, Stats) {
	stats := Stats{In: len(txns)}

	out, pairs := ReconcileRefunds(txns)
	stats.Refunds = pairs
	p.log.Info().Int("pairs", pairs).Int("remaining", len(out)).Msg("refund hedging done")

	out, ts := p.transfers.Run(out)
	stats.Transfer = ts
	p.log.Info().
		Int("matched", ts.Matched).
		Int("synthesized", ts.Synthesized).
		Int("remaining", len(out)).
		Msg("transfer identification done")

	out, fs := p.family.Run(out)
	stats.Family = fs
	p.log.Info().
		Int("matched", fs.Matched).
		Int("promoted", fs.Promoted).
		Int("dropped", fs.Dropped).
		Int("remaining", len(out)).
		Msg("family-card attribution done")

	SortByDate(out)
	stats.Out = len(out)
	return out, stats
}
