package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/billfold-dev/billfold/internal/accounts"
	"github.com/billfold-dev/billfold/internal/classify"
	"github.com/billfold-dev/billfold/internal/config"
	"github.com/billfold-dev/billfold/internal/importer"
	"github.com/billfold-dev/billfold/internal/ledger"
	"github.com/billfold-dev/billfold/internal/logger"
	"github.com/billfold-dev/billfold/internal/model"
	"github.com/billfold-dev/billfold/internal/runlog"
)

func newMergeCommand() *cobra.Command {
	var out string
	var keep bool

	cmd := &cobra.Command{
		Use:   "merge [directory]",
		Short: "Merge statements from import/ into one reconciled ledger CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if out == "" {
				out = filepath.Join(absDir, "ledger.csv")
			}
			return runMerge(cmd, absDir, out, keep)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output ledger path (default <directory>/ledger.csv)")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave statement files in import/ instead of archiving them")

	return cmd
}

func runMerge(cmd *cobra.Command, dir, out string, keep bool) error {
	log := logger.New()

	cfg := config.LoadOrDefault(filepath.Join(dir, "billfold.yaml"))
	svc := accounts.NewService(cfg)
	cls := classify.New(cfg.Keywords)
	registry := importer.DefaultRegistry(svc, cls)

	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no statement CSVs found in %s", filepath.Join(dir, "import"))
	}

	// Concatenate sources in file-enumeration order: that order is the
	// tie-break order for every greedy matching stage.
	var txns []model.Transaction
	var parsed []string
	for _, file := range files {
		parser := registry.Get(importer.FormatFor(file.Name))
		if parser == nil {
			log.Warn().Str("file", file.Name).Msg("no parser for format, skipping")
			continue
		}

		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		fileTxns, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		log.Info().Str("file", file.Name).Int("records", len(fileTxns)).Msg("parsed statement")
		txns = append(txns, fileTxns...)
		parsed = append(parsed, file.Name)
	}

	pipeline := ledger.NewPipeline(cfg, svc, log)
	merged, stats := pipeline.Run(txns)

	if errs := ledger.ValidateLedger(merged); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, ve := range errs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("output validation failed: %s", strings.Join(msgs, "; "))
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()
	if err := ledger.WriteLedger(f, merged); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	if err := appendRunLog(dir, stats); err != nil {
		return err
	}

	if !keep {
		for _, name := range parsed {
			if err := importer.MarkProcessed(dir, name); err != nil {
				return err
			}
		}
	}

	printSummary(cmd, merged)
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d records into %d (%s)\n", stats.In, stats.Out, out)
	return nil
}

func appendRunLog(dir string, stats ledger.Stats) error {
	now := time.Now()
	entries := []runlog.Entry{
		{Timestamp: now, Stage: "refunds", Details: fmt.Sprintf("pairs=%d", stats.Refunds), In: stats.In},
		{Timestamp: now, Stage: "transfers", Details: fmt.Sprintf("matched=%d synthesized=%d", stats.Transfer.Matched, stats.Transfer.Synthesized)},
		{Timestamp: now, Stage: "family-card", Details: fmt.Sprintf("matched=%d promoted=%d dropped=%d", stats.Family.Matched, stats.Family.Promoted, stats.Family.Dropped), Out: stats.Out},
	}
	if err := runlog.Append(dir, entries); err != nil {
		return fmt.Errorf("writing merge log: %w", err)
	}
	return nil
}

// printSummary renders per-account totals for the merged ledger.
func printSummary(cmd *cobra.Command, txns []model.Transaction) {
	type totals struct {
		expense  decimal.Decimal
		income   decimal.Decimal
		transfer decimal.Decimal
	}

	byAccount := make(map[string]*totals)
	var order []string
	for _, t := range txns {
		acct, ok := byAccount[t.Account]
		if !ok {
			acct = &totals{}
			byAccount[t.Account] = acct
			order = append(order, t.Account)
		}
		switch t.Type {
		case model.TypeExpense:
			acct.expense = acct.expense.Add(t.Amount)
		case model.TypeIncome:
			acct.income = acct.income.Add(t.Amount)
		case model.TypeTransfer:
			acct.transfer = acct.transfer.Add(t.Amount)
		}
	}
	sort.Strings(order)

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Account", "Expense", "Income", "Transfer"})
	for _, name := range order {
		acct := byAccount[name]
		table.Append([]string{
			name,
			acct.expense.StringFixed(2),
			acct.income.StringFixed(2),
			acct.transfer.StringFixed(2),
		})
	}
	table.Render()
}
