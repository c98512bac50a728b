package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/enrich"
	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/store"
)

var (
	batchCSV         string
	batchLimit       int
	batchConcurrency int
	batchDryRun      bool
	batchOutput      string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich a batch of leads from a CSV or the store",
	Long: `Runs the enrichment pipeline over many leads concurrently.

Leads come from --csv when given, otherwise every stored lead with
status "saved" is processed.

Examples:
  # Dry run: parse the CSV, print leads, touch nothing
  venue-lead-cli batch --csv leads.csv --dry-run

  # Enrich the first 10 leads from a CSV
  venue-lead-cli batch --csv leads.csv --limit 10

  # Re-process everything queued in the store
  venue-lead-cli batch`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var leads []model.Lead

		if batchCSV != "" {
			parsed, err := enrich.ParseLeadsCSV(batchCSV)
			if err != nil {
				return eris.Wrap(err, "batch: parse csv")
			}
			leads = parsed
			zap.L().Info("parsed csv", zap.Int("leads", len(leads)))
		}

		if batchLimit > 0 && batchLimit < len(leads) {
			leads = leads[:batchLimit]
		}

		if batchDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrentLeads = batchConcurrency
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if batchCSV != "" {
			if err := env.Store.SaveLeads(ctx, leads); err != nil {
				return eris.Wrap(err, "batch: save leads")
			}
		} else {
			stored, err := env.Store.ListLeads(ctx, store.LeadFilter{
				Status: model.LeadStatusSaved,
				Limit:  batchLimit,
			})
			if err != nil {
				return eris.Wrap(err, "batch: list saved leads")
			}
			for _, sl := range stored {
				leads = append(leads, sl.Lead)
			}
			zap.L().Info("loaded queued leads", zap.Int("leads", len(leads)))
		}

		if len(leads) == 0 {
			zap.L().Info("no leads to process")
			return nil
		}

		summary := env.Pipeline.EnrichBatch(ctx, leads)

		spend := env.Costs.Snapshot()
		zap.L().Info("estimated api spend",
			zap.Int("completion_calls", spend.CompletionCalls),
			zap.Int("scrapes", spend.Scrapes),
			zap.Float64("usd", spend.EstimatedUSD),
		)

		out := os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "batch: create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "CSV file of leads (default: stored saved leads)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max leads to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent leads (default from config)")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "parse and print leads without enriching")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write batch summary JSON to file")
	rootCmd.AddCommand(batchCmd)
}
