package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/internal/resolver"
	"github.com/sells-group/brandscout-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resolution HTTP server",
	Long:  "Serves synchronous entity resolution over HTTP and exposes run history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		res, err := initResolver(false)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, res),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP API. st may be nil when persistence is disabled.
func newRouter(st store.Store, res *resolver.Resolver) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/resolve", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Records []model.RawRecord `json:"records"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(req.Records) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "records is required"})
			return
		}

		result := res.Resolve(r.Context(), req.Records)

		resp := struct {
			RunID    string                 `json:"run_id,omitempty"`
			Summary  model.RunSummary       `json:"summary"`
			Entities []model.ResolvedEntity `json:"entities"`
		}{
			Summary:  result.Summary,
			Entities: result.Entities,
		}

		if st != nil {
			run, err := st.CreateRun(r.Context(), "api")
			if err != nil {
				zap.L().Error("create run", zap.Error(err))
			} else {
				resp.RunID = run.ID
				if err := st.SaveEntities(r.Context(), run.ID, result.Entities); err != nil {
					zap.L().Error("save entities", zap.String("run_id", run.ID), zap.Error(err))
				} else if err := st.CompleteRun(r.Context(), run.ID, result.Summary); err != nil {
					zap.L().Error("complete run", zap.String("run_id", run.ID), zap.Error(err))
				}
			}
		}

		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/runs", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "persistence disabled"})
			return
		}
		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
		})
		if err != nil {
			zap.L().Error("list runs", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	r.Get("/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "persistence disabled"})
			return
		}
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	r.Get("/runs/{id}/entities", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "persistence disabled"})
			return
		}
		entities, err := st.ListEntities(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			zap.L().Error("list entities", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list entities failed"})
			return
		}
		writeJSON(w, http.StatusOK, entities)
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
