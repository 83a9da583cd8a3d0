package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jask/homeledger/internal/config"
	"github.com/jask/homeledger/internal/database"
	"github.com/jask/homeledger/internal/database/repository"
	"github.com/jask/homeledger/internal/handlers"
	"github.com/jask/homeledger/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Fatalf("Failed to create data dir: %v", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	ruleRepo := repository.NewRuleRepo(db)
	recurringRepo := repository.NewRecurringRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	applySvc := &service.ApplyService{
		Transactions: txRepo,
		Rules:        ruleRepo,
		Accounts:     acctRepo,
		Log:          logger,
	}
	ruleSvc := &service.RuleService{Rules: ruleRepo, Log: logger}
	recurringSvc := &service.RecurringService{
		DB:           db,
		Transactions: txRepo,
		Recurring:    recurringRepo,
		Log:          logger,
	}

	h := &handlers.Handler{
		Rules:        ruleSvc,
		Apply:        applySvc,
		Recurring:    recurringSvc,
		Transactions: txRepo,
		Categories:   categoryRepo,
		Log:          logger,
	}

	r := mux.NewRouter()
	h.Register(r)

	if spec := cfg.Scheduler.ApplyCron; spec != "" {
		c := cron.New()
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := applySvc.ApplyAll(ctx); err != nil {
				logger.WithError(err).Error("scheduled rule application failed")
			}
		})
		if err != nil {
			logger.Fatalf("Invalid scheduler.apply_cron: %v", err)
		}
		c.Start()
		defer c.Stop()
		logger.WithField("cron", spec).Info("rule application scheduled")
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.WithField("addr", addr).Info("homeledger listening")
	if err := server.ListenAndServe(); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
