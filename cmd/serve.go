package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/history"
	"github.com/bomadvisor/substitute-cli/internal/model"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newAppEnv()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter wires the HTTP API around a constructed appEnv.
func newRouter(env *appEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/recommend", func(w http.ResponseWriter, req *http.Request) {
		var q model.PartQuery
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if q.MPN == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mpn is required"})
			return
		}

		alternatives := env.advisor.Recommend(req.Context(), q)
		env.history.Add(history.KindRecommend, q.MPN, len(alternatives))
		writeJSON(w, http.StatusOK, map[string]any{
			"mpn":          q.MPN,
			"alternatives": alternatives,
		})
	})

	r.Post("/api/assess", func(w http.ResponseWriter, req *http.Request) {
		var q model.PartQuery
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if q.MPN == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mpn is required"})
			return
		}

		assessment := env.advisor.AssessRisk(req.Context(), q)
		env.history.Add(history.KindAssess, q.MPN, 1)
		writeJSON(w, http.StatusOK, assessment)
	})

	r.Post("/api/identify", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			MPN string `json:"mpn"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		info, ok := env.advisor.Identify(req.Context(), body.MPN)
		if !ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "not recognized as a component"})
			return
		}
		env.history.Add(history.KindIdentify, body.MPN, 1)
		writeJSON(w, http.StatusOK, info)
	})

	r.Post("/api/chat", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Message string             `json:"message"`
			History []deepseek.Message `json:"history"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Message == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for delta := range env.advisor.Chat(req.Context(), body.History, body.Message) {
			if _, err := w.Write([]byte(delta)); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, env.history.List())
	})

	r.Delete("/api/history", func(w http.ResponseWriter, req *http.Request) {
		env.history.Clear()
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
