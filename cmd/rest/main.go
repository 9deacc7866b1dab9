package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"enterprise-assistant-be/internal/bootstrap"
	"enterprise-assistant-be/internal/config"
	"enterprise-assistant-be/internal/model"
	"enterprise-assistant-be/internal/pkg/logger"
	"enterprise-assistant-be/internal/server"
	"enterprise-assistant-be/internal/tracer"
	"enterprise-assistant-be/pkg/database"

	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, sysLogger)
	defer shutdownTracer(context.Background())

	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, cfg.Database.SQLitePath, gormlogger.Warn)
	if err != nil {
		log.Panicf("Unable to connect to database: %v", err)
	}

	// Local sqlite databases are migrated on start; postgres goes through cmd/migrate.
	if cfg.Database.Driver == database.DriverSQLite {
		if err := gormDB.AutoMigrate(model.All()...); err != nil {
			log.Panicf("Unable to migrate sqlite database: %v", err)
		}
	}

	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})

	if container.EventRelayService != nil {
		g.Go(func() error {
			if err := container.EventRelayService.Start(gctx); err != nil {
				// Dashboards lose live updates but the assistant keeps working.
				sysLogger.Error(logger.ModuleEvents, "Event relay failed to start", map[string]interface{}{"error": err.Error()})
			}
			return nil
		})
	}

	srv := server.New(cfg, container)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error(logger.ModuleHTTP, "Server stopped", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
