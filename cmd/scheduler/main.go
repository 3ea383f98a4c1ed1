package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/policymail-scheduler/internal/clock"
	"github.com/ignite/policymail-scheduler/internal/config"
	"github.com/ignite/policymail-scheduler/internal/pkg/logger"
	"github.com/ignite/policymail-scheduler/internal/repository/postgres"
	"github.com/ignite/policymail-scheduler/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the scheduler config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	switch cfg.Logging.Level {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}
	logger.SetRedactPII(cfg.Logging.RedactPII)

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("shutdown signal received, cancelling run")
		cancel()
	}()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err.Error())
		os.Exit(1)
	}

	driver := scheduler.Driver{
		Contacts:  postgres.NewContactRepo(db),
		Schedules: postgres.NewScheduleRepo(db),
		Clock:     clock.RealClock{},
	}

	logger.Info("starting scheduler run")
	report, err := driver.Run(ctx, cfg.Organization.ToDomain())
	if err != nil {
		logger.Error("scheduler run failed", "error", err.Error())
		os.Exit(1)
	}

	logger.Info("scheduler run complete",
		"run_id", report.SchedulerRunID,
		"contacts_processed", fmt.Sprint(report.ContactsProcessed),
		"inserts", fmt.Sprint(report.Inserts),
		"updates", fmt.Sprint(report.Updates),
		"preserved", fmt.Sprint(report.Preserved),
		"deletes", fmt.Sprint(report.Deletes),
		"skipped", fmt.Sprint(report.Skipped),
		"errors", fmt.Sprint(len(report.Errors)),
	)
	for _, ce := range report.Errors {
		logger.Warn("contact skipped", "contact_id", fmt.Sprint(ce.ContactID), "reason", ce.Reason)
	}

	if len(report.Errors) > 0 {
		os.Exit(2)
	}
}
