package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"fitcal/internal/capture"
	"fitcal/internal/config"
	"fitcal/internal/i18n"
	"fitcal/internal/ingest"
	"fitcal/internal/library"
	appLog "fitcal/internal/log"
	"fitcal/internal/plan"
	"fitcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	lang       string
	once       bool
	debug      bool
}

func main() {
	appLog.Info("fitcal starting", "version", web.Version)

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.lang != "" {
		if !i18n.Supported(flags.lang) {
			appLog.Error("unsupported language", errors.New("unknown language code"), "lang", flags.lang, "supported", i18n.Languages())
			os.Exit(1)
		}
		conf.Language = flags.lang
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"language", conf.Language,
		"refresh", conf.RefreshCron,
		"data_dir", conf.DataDir,
		"source_count", len(conf.Sources),
		"book_via_whatsapp", conf.BookViaWhatsApp,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	store, err := plan.Open(filepath.Join(conf.DataDir, "workouts.json"))
	if err != nil {
		appLog.Error("failed to open workout store", err, "data_dir", conf.DataDir)
		os.Exit(1)
	}

	var lib *library.Index
	if conf.ExerciseCSV != "" {
		exercises, err := ingest.LoadExerciseCSV(conf.ExerciseCSV)
		if err != nil {
			appLog.Error("failed to load exercise catalog; library disabled", err, "path", conf.ExerciseCSV)
		} else {
			lib = library.NewIndex(exercises)
			appLog.Info("exercise catalog loaded", "count", lib.Len())
		}
	}

	server := web.NewServer(conf, flags.configPath, store, lib)

	// Initial source refresh before serving anything.
	refreshCtx, refreshCancel := context.WithTimeout(ctx, 60*time.Second)
	if err := server.Refresh(refreshCtx); err != nil {
		appLog.Error("initial refresh failed", err)
	}
	refreshCancel()

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		serveErr <- httpServer.ListenAndServe()
	}()

	if flags.once {
		if err := captureOnce(ctx, conf); err != nil {
			appLog.Error("schedule capture failed", err)
		}
		shutdownHTTP(httpServer)
		appLog.Info("fitcal exiting")
		return
	}

	// Periodic refresh driven by the configured cron expression.
	c := cron.New()
	_, err = c.AddFunc(conf.RefreshCron, func() {
		rctx, rcancel := context.WithTimeout(ctx, 60*time.Second)
		defer rcancel()
		if err := server.Refresh(rctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	})
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
		}
		cancel()
	}

	<-c.Stop().Done()
	shutdownHTTP(httpServer)
	appLog.Info("fitcal exiting")
}

// captureOnce renders the current schedule to a PNG preview on disk,
// for cron-driven publishing setups that do not keep the server around.
func captureOnce(ctx context.Context, conf *config.Config) error {
	if err := os.MkdirAll(conf.DataDir, 0o700); err != nil {
		return err
	}
	url := "http://" + conf.Listen + "/schedule"
	if conf.BasicAuth != nil && conf.BasicAuth.Username != "" {
		url = "http://" + conf.BasicAuth.Username + ":" + conf.BasicAuth.Password + "@" + conf.Listen + "/schedule"
	}
	return capture.CapturePNG(ctx, capture.PNGOptions{
		URL:        url,
		OutputPath: filepath.Join(conf.DataDir, "preview.png"),
	})
}

func shutdownHTTP(s *http.Server) {
	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	if err := s.Shutdown(shCtx); err != nil {
		appLog.Error("HTTP shutdown failed", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/fitcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.lang, "lang", "", "Display language: en, es or cat (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+render cycle, write preview.png and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
