package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/config"
	"budget/internal/history"
	"budget/internal/notify"
	"budget/internal/rates"
	"budget/internal/scheduler"
	"budget/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting budgetd")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st := store.NewSeeded()
	logger.Info("Budget store seeded",
		"income", st.Income(),
		"expenses", st.Expenses(),
		"categories", len(st.Categories()),
		"currency", st.Currency())

	// History archive (SQLite)
	archive, err := history.NewArchive(cfg.SQLiteDBPath, cfg.HistoryBatchSize)
	if err != nil {
		logger.Error("Failed to initialize history archive", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer archive.Close()
	logger.Info("History archive ready", "path", cfg.SQLiteDBPath, "last_seq", archive.LastSeq())

	// Exchange-rate client (optional)
	rateClient := rates.NewClient(cfg.RateAPIBaseURL, cfg.RateAPIKey)
	if rateClient == nil {
		logger.Info("Rate provider disabled - no RATE_API_KEY provided, currency switching stays unavailable")
	}

	// AMQP reminder delivery (optional)
	var notifier *notify.Client
	if cfg.AMQPURL != "" {
		notifier, err = notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, reminders will only be marked in-store", "error", err)
			notifier = nil
		} else {
			defer notifier.Close()
			logger.Info("AMQP reminder delivery initialized", "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - reminders will only be marked in-store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New()
	registerJobs(sched, cfg, st, archive, rateClient, notifier, logger)

	if err := sched.Start(ctx); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("Scheduler shutdown error", "error", err)
	}
	cancel()
	logger.Info("budgetd shutdown complete")
}

func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	st *store.Store,
	archive *history.Archive,
	rateClient *rates.Client,
	notifier *notify.Client,
	logger *slog.Logger,
) {
	if rateClient != nil {
		mustAdd(sched, logger, scheduler.Job{
			Name:       "rates",
			Interval:   cfg.RateRefreshInterval,
			RunOnStart: true,
			Run: func(ctx context.Context, _ time.Time) error {
				table, err := rateClient.FetchLatest(ctx)
				if err != nil {
					// Last-known table stays in place; currency switching
					// degrades until the next successful fetch.
					logger.Warn("Exchange-rate refresh failed", "error", err)
					return nil
				}
				st.SetExchangeRates(table)
				logger.Info("Exchange rates refreshed", "currencies", len(table))
				return nil
			},
		})
	}

	mustAdd(sched, logger, scheduler.Job{
		Name:     "reminders",
		Interval: cfg.ReminderCheckInterval,
		Run: func(ctx context.Context, now time.Time) error {
			for _, r := range st.DueReminders(now) {
				if notifier != nil {
					msg := notify.NewBillReminderMessage(r, st.Currency())
					if err := notifier.PublishBillReminder(ctx, msg); err != nil {
						logger.Error("Reminder delivery failed", "error", err, "reminder_id", r.ID)
						continue
					}
				} else {
					logger.Info("Bill reminder due",
						"expense", r.ExpenseName,
						"amount", r.Amount,
						"due_date", r.DueDate.Format("2006-01-02"))
				}
				st.MarkReminderNotified(r.ID)
			}
			return nil
		},
	})

	mustAdd(sched, logger, scheduler.Job{
		Name:       "recurring",
		Interval:   cfg.RecurringInterval,
		RunOnStart: true,
		Run: func(_ context.Context, _ time.Time) error {
			if count := st.ProcessRecurringExpenses(); count > 0 {
				logger.Info("Processed recurring expenses", "count", count)
			}
			return nil
		},
	})

	mustAdd(sched, logger, scheduler.Job{
		Name:       "insights",
		Interval:   cfg.InsightInterval,
		RunOnStart: true,
		Run: func(_ context.Context, _ time.Time) error {
			st.GenerateInsights()
			logger.Info("Insights regenerated", "count", len(st.Insights()))
			return nil
		},
	})

	mustAdd(sched, logger, scheduler.Job{
		Name:     "history",
		Interval: cfg.HistoryArchiveInterval,
		Run: func(ctx context.Context, _ time.Time) error {
			_, err := archive.ArchiveNew(ctx, st)
			return err
		},
	})
}

func mustAdd(sched *scheduler.Scheduler, logger *slog.Logger, job scheduler.Job) {
	if err := sched.Add(job); err != nil {
		logger.Error("Failed to register job", "job", job.Name, "error", err)
		os.Exit(1)
	}
}
