package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/followups-tracker/internal/app"
	"github.com/joseph-ayodele/followups-tracker/internal/async"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/ingest"
	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
	"github.com/joseph-ayodele/followups-tracker/internal/review"
	svc "github.com/joseph-ayodele/followups-tracker/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to read .env", "error", err)
	}
	cfg := common.LoadConfig()
	addr := cfg.Server.GRPCAddr
	if !strings.HasPrefix(addr, ":") && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(512),
		async.WithProcessTimeout(cfg.Pipeline.JobTimeout),
		async.WithResultHandler(exportHandler(a, logger)),
	)

	if cfg.Server.WatchDir != "" {
		if err := startWatching(ctx, cfg.Server.WatchDir, ingest.NewFSIngestor(queue, logger), logger); err != nil {
			logger.Error("failed to start watcher", "dir", cfg.Server.WatchDir, "error", err)
			os.Exit(1)
		}
	}

	grpcServer, healthServer := svc.NewGRPCServer(svc.NewFollowupService(a.Processor, a.Exporter, logger), logger)

	logger.Info("followups-tracker listening", "addr", addr, "history_backend", cfg.History.Backend)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
}

// startWatching feeds files appearing under dir into the ingestor.
func startWatching(ctx context.Context, dir string, ingestor *ingest.FSIngestor, logger *slog.Logger) error {
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case p, ok := <-paths:
				if !ok {
					return
				}
				if _, err := ingestor.IngestPath(ctx, p); err != nil {
					logger.Error("ingest failed", "path", p, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	}()
	logger.Info("watching for reports", "dir", dir)
	return nil
}

// exportHandler writes an XLSX and a PDF for every watched report that
// produced tasks. Nothing is written to the history; that stays a reviewed step.
func exportHandler(a *app.App, logger *slog.Logger) async.ResultHandler {
	dir := a.Config.Server.ExportDir
	return func(ctx context.Context, job async.Job, res pipeline.Result, err error) {
		if err != nil || res.Err != nil || dir == "" {
			return
		}
		if res.NeedsManualEntry {
			logger.Info("no standard task recognised, manual entry required", "path", job.Path)
			return
		}
		out := dir
		if job.TraceID != "" {
			out = filepath.Join(dir, job.TraceID)
		}
		files, werr := a.Exporter.WriteFiles(ctx, out, review.NewSession(res.Tasks...).Rows())
		if werr != nil {
			logger.Error("export failed", "path", job.Path, "error", werr)
			return
		}
		logger.Info("exported follow-up tasks", "path", job.Path, "xlsx", files.XLSX, "pdf", files.PDF)
	}
}
