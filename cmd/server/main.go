package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"govsim.ai/internal/httpapi"
	"govsim.ai/internal/persistence/store"
	"govsim.ai/internal/sim/world/engine"
	"govsim.ai/internal/sim/world/feature/advisors"
)

func main() {
	var (
		addr            = flag.String("addr", ":8080", "http listen address")
		dataDir         = flag.String("data", "./data", "runtime data directory")
		configPath      = flag.String("configs", "./configs/server.yaml", "path to server config yaml")
		dbPath          = flag.String("db", "", "path to sqlite db (default: <data>/govsim.db)")
		tickIntervalHrs = flag.Int("tick_interval_hours", 0, "tick interval in hours (overrides config when > 0)")
		maxPlayers      = flag.Int("max_players", 0, "max players per server (overrides config when > 0)")
		advisorEndpoint = flag.String("advisor_endpoint", "", "LLM endpoint the advisor pipeline calls (overrides config)")
		advisorTimeout  = flag.Duration("advisor_timeout", 0, "per-advisor-call timeout (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[govsim] ", log.LstdFlags|log.Lmicroseconds)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("create data dir: %v", err)
	}
	engine.SetAuditDir(*dataDir)

	path := *dbPath
	if path == "" {
		path = filepath.Join(*dataDir, "govsim.db")
	}
	st, err := store.Open(path, *configPath)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := st.LoadConfig(ctx)
	if err != nil {
		logger.Printf("load config (%s): %v; using flag/env defaults", *configPath, err)
	}
	if *tickIntervalHrs > 0 {
		cfg.TickIntervalHours = *tickIntervalHrs
	}
	if cfg.TickIntervalHours <= 0 {
		cfg.TickIntervalHours = 24
	}
	if *maxPlayers > 0 {
		cfg.MaxPlayersPerServer = *maxPlayers
	}
	if *advisorEndpoint != "" {
		cfg.AdvisorEndpoint = *advisorEndpoint
	}
	if *advisorTimeout > 0 {
		cfg.AdvisorTimeout = *advisorTimeout
	} else if cfg.AdvisorTimeout <= 0 {
		cfg.AdvisorTimeout = 20 * time.Second
	}

	apiKey := os.Getenv("VC_AI_API_KEY")

	pipeline := advisors.NewHTTPPipeline(advisors.HTTPConfig{
		Endpoint: cfg.AdvisorEndpoint,
		APIKey:   apiKey,
		Timeout:  cfg.AdvisorTimeout,
	})
	pipeline.Logger = logger

	srv := httpapi.NewServer(st, pipeline, logger, cfg)
	if err := srv.RestoreGames(ctx); err != nil {
		logger.Printf("restore games: %v", err)
	}

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = st.Close()
	}()

	logger.Printf("listening on %s (tick_interval_hours=%d max_players=%d)", *addr, cfg.TickIntervalHours, cfg.MaxPlayersPerServer)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("listen: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
