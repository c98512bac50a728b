package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/model"
)

var (
	enrichID      string
	enrichName    string
	enrichURL     string
	enrichAddress string
	enrichCity    string
	enrichState   string
	enrichEmail   string
	enrichPhone   string
	enrichContact string
	enrichType    string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich and score a single venue lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		id := enrichID
		if id == "" {
			id = uuid.New().String()
		}

		lead := model.Lead{
			ID:           id,
			Name:         enrichName,
			Address:      enrichAddress,
			City:         enrichCity,
			State:        enrichState,
			Website:      enrichURL,
			ContactName:  enrichContact,
			ContactEmail: enrichEmail,
			ContactPhone: enrichPhone,
			BusinessType: enrichType,
		}

		if err := env.Store.SaveLead(ctx, lead); err != nil {
			return eris.Wrap(err, "save lead")
		}

		rec, err := env.Pipeline.EnrichLead(ctx, lead)
		if err != nil {
			if markErr := env.Store.MarkFailed(ctx, lead.ID, err.Error()); markErr != nil {
				zap.L().Warn("mark lead failed", zap.Error(markErr))
			}
			return eris.Wrap(err, "enrich lead")
		}

		zap.L().Info("enrichment complete",
			zap.String("lead", lead.ID),
			zap.Int("score", rec.Score.Score),
			zap.String("potential", string(rec.Score.Potential)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichID, "id", "", "lead ID (generated when omitted)")
	enrichCmd.Flags().StringVar(&enrichName, "name", "", "venue name (required)")
	enrichCmd.Flags().StringVar(&enrichURL, "url", "", "venue website URL")
	enrichCmd.Flags().StringVar(&enrichAddress, "address", "", "street address")
	enrichCmd.Flags().StringVar(&enrichCity, "city", "", "city")
	enrichCmd.Flags().StringVar(&enrichState, "state", "", "state")
	enrichCmd.Flags().StringVar(&enrichContact, "contact-name", "", "known contact name")
	enrichCmd.Flags().StringVar(&enrichEmail, "contact-email", "", "known contact email")
	enrichCmd.Flags().StringVar(&enrichPhone, "contact-phone", "", "known contact phone")
	enrichCmd.Flags().StringVar(&enrichType, "business-type", "", "business type (e.g. wedding venue)")
	_ = enrichCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(enrichCmd)
}
