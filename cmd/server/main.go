package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/utec-cloud/incident-hub/internal/api"
	"github.com/utec-cloud/incident-hub/internal/auth"
	"github.com/utec-cloud/incident-hub/internal/config"
	"github.com/utec-cloud/incident-hub/internal/gateway"
	"github.com/utec-cloud/incident-hub/internal/metrics"
	"github.com/utec-cloud/incident-hub/internal/netutil"
	"github.com/utec-cloud/incident-hub/internal/realtime"
	"github.com/utec-cloud/incident-hub/internal/reports"
	"github.com/utec-cloud/incident-hub/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("config loaded",
		"bind_addr", cfg.BindAddr,
		"redis", cfg.RedisURL != "",
		"default_tenant", cfg.DefaultTenant,
		"broadcast_concurrency", cfg.BroadcastConcurrency,
		"send_timeout_ms", cfg.SendTimeoutMS,
		"audit_dir", cfg.AuditDir,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	bindAddr, err := netutil.SelectBindAddr(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	var (
		registry     realtime.Registry
		reportStore  reports.Store
		accountStore auth.Store
	)
	if cfg.RedisURL != "" {
		client, err := storage.Open(cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		registry = storage.NewRedisRegistry(client)
		reportStore = storage.NewRedisReportStore(client)
		accountStore = storage.NewRedisAccountStore(client)
	} else {
		slog.Warn("IH_REDIS_URL not set, using in-memory storage")
		registry = storage.NewMemoryRegistry()
		reportStore = storage.NewMemoryReportStore()
		accountStore = storage.NewMemoryAccountStore()
	}

	m := metrics.New()
	sendTimeout := time.Duration(cfg.SendTimeoutMS) * time.Millisecond

	gw := gateway.New(sendTimeout, m)
	broadcaster := realtime.NewBroadcaster(registry, gw, m, cfg.BroadcastConcurrency, sendTimeout)
	gw.Attach(
		realtime.NewLifecycle(registry, broadcaster, reportStore),
		realtime.NewRouter(reportStore, broadcaster),
	)

	reportSvc := reports.NewService(reportStore, broadcaster, cfg.DefaultTenant)
	if cfg.AuditDir != "" {
		audit := storage.NewAuditLog(cfg.AuditDir, 256)
		defer func() { _ = audit.Close() }()
		reportSvc = reportSvc.WithAudit(audit)
	}
	authSvc := auth.NewService(accountStore)

	handler := api.NewServer(reportSvc, authSvc, gw.Handler(), m.Handler())
	srv := &http.Server{Addr: bindAddr, Handler: handler}

	go func() {
		slog.Info("incident hub listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	gw.Close()
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
