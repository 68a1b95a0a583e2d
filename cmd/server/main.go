package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/config"
	"github.com/mamadbah2/dyecalc/internal/repository/memory"
	"github.com/mamadbah2/dyecalc/internal/repository/mongodb"
	"github.com/mamadbah2/dyecalc/internal/repository/sheets"
	"github.com/mamadbah2/dyecalc/internal/scheduler"
	"github.com/mamadbah2/dyecalc/internal/server/handlers"
	"github.com/mamadbah2/dyecalc/internal/server/router"
	extractionsvc "github.com/mamadbah2/dyecalc/internal/service/extraction"
	notifysvc "github.com/mamadbah2/dyecalc/internal/service/notify"
	"github.com/mamadbah2/dyecalc/internal/service/printing"
	recipesvc "github.com/mamadbah2/dyecalc/internal/service/recipes"
	reportingsvc "github.com/mamadbah2/dyecalc/internal/service/reporting"
	"github.com/mamadbah2/dyecalc/pkg/clients/anthropic"
	whatsappclient "github.com/mamadbah2/dyecalc/pkg/clients/whatsapp"
	"github.com/mamadbah2/dyecalc/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		recipeStore    recipesvc.Store
		productionRepo reportingsvc.Repository
	)
	switch cfg.Storage.Driver {
	case config.StorageMongoDB:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		mongoClient, err := mongodb.Connect(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		recipeStore = mongoClient.Recipes()
		productionRepo = mongoClient.Production()
	default:
		baseLogger.Warn("using in-memory storage, data is lost on restart")
		recipeStore = memory.NewRecipeStore()
		productionRepo = memory.NewProductionRepository()
	}

	var (
		recipeExporter     recipesvc.Exporter
		productionExporter reportingsvc.Exporter
	)
	if cfg.SheetsEnabled() {
		exporter, err := sheets.NewExporter(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		recipeExporter, productionExporter = exporter, exporter
		baseLogger.Info("google sheets export enabled")
	}

	rates := reportingsvc.Rates{
		LantaburPerKg: cfg.Dashboard.RateLantabur,
		TaqwaPerKg:    cfg.Dashboard.RateTaqwa,
		WaterPerKg:    cfg.Dashboard.WaterPerKg,
		CO2PerKg:      cfg.Dashboard.CO2PerKg,
		DailyTargetKg: cfg.Dashboard.DailyTargetKg,
	}
	reportingSvc := reportingsvc.NewService(productionRepo, productionExporter, rates, baseLogger.Named("svc.reporting"))
	recipeSvc := recipesvc.NewService(recipeStore, recipeExporter, baseLogger.Named("svc.recipes"))
	printer := printing.NewService(cfg.Company.Name, cfg.Company.Currency, baseLogger.Named("svc.printing"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(anthropic.Config{APIKey: cfg.AI.AnthropicKey, Model: cfg.AI.Model})
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, report extraction disabled")
	}
	extractionSvc := extractionsvc.NewService(aiClient, reportingSvc, baseLogger.Named("svc.extraction"))

	engine := router.New(router.Handlers{
		Requisitions: handlers.NewRequisitionHandler(printer, baseLogger.Named("handlers.requisitions")),
		Recipes:      handlers.NewRecipeHandler(recipeSvc, printer, baseLogger.Named("handlers.recipes")),
		Production:   handlers.NewProductionHandler(reportingSvc, extractionSvc, baseLogger.Named("handlers.production")),
		Invoices:     handlers.NewInvoiceHandler(printer, baseLogger.Named("handlers.invoices")),
	}, baseLogger.Named("router"))

	if cfg.WhatsAppEnabled() {
		notifier := notifysvc.NewWhatsAppNotifier(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.DigestTo, baseLogger.Named("svc.notify"))
		sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifier, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Info("whatsapp digest not configured, scheduler disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
