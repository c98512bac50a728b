package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/venue-lead-cli/internal/model"
	"github.com/sells-group/venue-lead-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for enrichment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(ctx, env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type enrichRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	BusinessType string `json:"business_type"`
}

func (r enrichRequest) lead() model.Lead {
	id := r.ID
	if id == "" {
		id = uuid.New().String()
	}
	return model.Lead{
		ID:           id,
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Website:      r.Website,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		BusinessType: r.BusinessType,
	}
}

// newRouter builds the HTTP API. serveCtx outlives individual requests
// and bounds the async webhook enrichments.
func newRouter(serveCtx context.Context, env *pipelineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/costs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, env.Costs.Snapshot())
	})

	// Fire-and-forget enrichment for CRM webhooks.
	r.Post("/webhook/enrich", func(w http.ResponseWriter, req *http.Request) {
		var body enrichRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}

		lead := body.lead()
		if err := env.Store.SaveLead(req.Context(), lead); err != nil {
			zap.L().Error("webhook save lead failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save lead failed"})
			return
		}

		go func() {
			rec, err := env.Pipeline.EnrichLead(serveCtx, lead)
			if err != nil {
				zap.L().Error("webhook enrichment failed",
					zap.String("lead", lead.ID),
					zap.Error(err),
				)
				if markErr := env.Store.MarkFailed(serveCtx, lead.ID, err.Error()); markErr != nil {
					zap.L().Warn("webhook mark failed", zap.Error(markErr))
				}
				return
			}
			zap.L().Info("webhook enrichment complete",
				zap.String("lead", lead.ID),
				zap.Int("score", rec.Score.Score),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"lead_id": lead.ID,
		})
	})

	// Synchronous batch enrichment.
	r.Post("/enrich/batch", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Leads []enrichRequest `json:"leads"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.Leads) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "leads is required"})
			return
		}

		leads := make([]model.Lead, 0, len(body.Leads))
		for _, lr := range body.Leads {
			leads = append(leads, lr.lead())
		}
		if err := env.Store.SaveLeads(req.Context(), leads); err != nil {
			zap.L().Error("batch save leads failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save leads failed"})
			return
		}

		summary := env.Pipeline.EnrichBatch(req.Context(), leads)
		writeJSON(w, http.StatusOK, summary)
	})

	r.Get("/leads", func(w http.ResponseWriter, req *http.Request) {
		stored, err := env.Store.ListLeads(req.Context(), store.LeadFilter{
			Status: model.LeadStatus(req.URL.Query().Get("status")),
		})
		if err != nil {
			zap.L().Error("list leads failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list leads failed"})
			return
		}
		writeJSON(w, http.StatusOK, stored)
	})

	r.Get("/leads/{id}", func(w http.ResponseWriter, req *http.Request) {
		sl, err := env.Store.GetLead(req.Context(), chi.URLParam(req, "id"))
		if eris.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
			return
		}
		if err != nil {
			zap.L().Error("get lead failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get lead failed"})
			return
		}
		writeJSON(w, http.StatusOK, sl)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
