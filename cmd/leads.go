package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/store"
)

var (
	leadsStatus string
	leadsLimit  int
	leadsJSON   bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads and their enrichment state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		stored, err := st.ListLeads(ctx, store.LeadFilter{
			Status: model.LeadStatus(leadsStatus),
			Limit:  leadsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stored)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSCORE\tPOTENTIAL")
		for _, sl := range stored {
			score, potential := "-", "-"
			if sl.Record != nil {
				score = fmt.Sprintf("%d", sl.Record.Score.Score)
				potential = string(sl.Record.Score.Potential)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sl.Lead.ID, sl.Lead.Name, sl.Status, score, potential)
		}
		return w.Flush()
	},
}

var leadsGetCmd = &cobra.Command{
	Use:   "get <lead-id>",
	Short: "Show one stored lead with its full enrichment record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		sl, err := st.GetLead(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "get lead %s", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sl)
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by status (saved|enriched|failed)")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "max leads to list")
	leadsCmd.Flags().BoolVar(&leadsJSON, "json", false, "output JSON instead of a table")
	leadsCmd.AddCommand(leadsGetCmd)
	rootCmd.AddCommand(leadsCmd)
}
