package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/budgetbuddy/budgetbuddy/internal/advisor"
	"github.com/budgetbuddy/budgetbuddy/internal/api/handlers"
	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/config"
	infraBQ "github.com/budgetbuddy/budgetbuddy/internal/infra/bigquery"
	"github.com/budgetbuddy/budgetbuddy/internal/logger"
	"github.com/budgetbuddy/budgetbuddy/internal/planfile"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
	"github.com/budgetbuddy/budgetbuddy/internal/store"
	"github.com/budgetbuddy/budgetbuddy/internal/store/inmemory"
)

// demoPrincipal is the bearer token to use against a seeded local server.
const demoPrincipal = "demo-user"

func main() {
	cfg := config.Load()
	log := logger.New()

	ctx := context.Background()

	// Pick the record store. BigQuery when a project is configured,
	// otherwise in-memory for local development.
	var records store.RecordStore
	if cfg.ProjectID != "" {
		bqStore, err := infraBQ.NewStore(ctx, cfg.ProjectID, cfg.DatasetID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery record store")
		}
		defer bqStore.Close()
		records = bqStore
		log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.DatasetID).Msg("Using BigQuery record store")
	} else {
		mem := inmemory.NewStore()
		if cfg.SeedDemoData {
			if err := mem.Seed(ctx, demoPrincipal, time.Now()); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed demo data")
			}
			log.Info().Str("principal_id", demoPrincipal).Msg("Seeded demo data")
		}
		records = mem
		log.Warn().Msg("No GCP project configured - using in-memory record store")
	}

	archive := planfile.NewArchive(cfg.PlanBucket)
	if !archive.Enabled() {
		log.Warn().Msg("No plan bucket configured - plan archiving will be disabled")
	}

	adv := advisor.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No Gemini API key configured - plan feedback will be disabled")
	}

	sessions := session.NewManager(records, log)

	// Initialize handlers
	dataHandler := handlers.NewDataHandler(sessions, log)
	transactionsHandler := handlers.NewTransactionsHandler(sessions, log)
	budgetsHandler := handlers.NewBudgetsHandler(sessions, log)
	recurringHandler := handlers.NewRecurringHandler(sessions, log)
	plansHandler := handlers.NewPlansHandler(sessions, archive, adv, log)
	notificationsHandler := handlers.NewNotificationsHandler(sessions, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dataHandler.GetData(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			dataHandler.Refresh(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dataHandler.GetSummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.Create(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/import", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.Import(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/export", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.Export(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			transactionsHandler.Update(w, r, id)
		case http.MethodDelete:
			transactionsHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Budgets endpoints
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			budgetsHandler.Set(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/budgets/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			category := strings.TrimPrefix(r.URL.Path, "/api/budgets/")
			if category == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Budget category is required")
				return
			}
			budgetsHandler.Delete(w, r, category)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Recurring item endpoints
	mux.HandleFunc("/api/recurring", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			recurringHandler.Create(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/recurring/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/recurring/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Recurring item ID is required")
			return
		}
		switch r.Method {
		case http.MethodPut:
			recurringHandler.Update(w, r, id)
		case http.MethodDelete:
			recurringHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Plan endpoints
	mux.HandleFunc("/api/plans", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			plansHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/plans/feedback", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			plansHandler.Feedback(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Notification endpoints
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			notificationsHandler.List(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/notifications/read", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			notificationsHandler.MarkRead(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain per-principal sync queues before exiting.
	sessions.CloseAll(shutdownCtx)

	log.Info().Msg("Server exited")
}
