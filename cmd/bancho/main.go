package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/onecho-dev/onecho/internal/bancho"
	"github.com/onecho-dev/onecho/internal/config"
	"github.com/onecho-dev/onecho/internal/db"
	"github.com/onecho-dev/onecho/internal/geoloc"
	"github.com/onecho-dev/onecho/internal/model"
	"github.com/onecho-dev/onecho/internal/web"
)

const ConfigPath = "config/bancho.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("ONECHO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug || slices.Contains(os.Args[1:], "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	slog.Info("onecho starting", "addr", cfg.Addr(), "domain", cfg.MainDomain)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	users := db.NewUserRepository(database.Pool())
	stats := db.NewStatsRepository(database.Pool())
	relations := db.NewRelationshipRepository(database.Pool())
	channels := db.NewChannelRepository(database.Pool())

	state := bancho.NewState(users, stats, relations, geoloc.New())

	rows, err := channels.All(ctx)
	if err != nil {
		return fmt.Errorf("loading channels: %w", err)
	}
	for _, row := range rows {
		state.Channels.Add(bancho.NewChannel(
			row.Name, row.Topic, row.ReadPrivs, row.WritePrivs, row.AutoJoin, false,
		))
	}
	slog.Info("channels loaded", "count", len(rows))

	// Pre-rank everyone so returning users see their global rank before
	// their first login refreshes it.
	for _, mode := range model.Modes {
		lb := state.Leaderboards.For(mode)
		if err := stats.RankedScores(ctx, mode, func(userID int32, score int64) {
			lb.Upsert(userID, score)
		}); err != nil {
			return fmt.Errorf("seeding %s leaderboard: %w", mode, err)
		}
	}
	slog.Info("leaderboards seeded")

	handler := bancho.NewHandler(state)
	server := web.New(handler, cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting http server", "addr", cfg.Addr())
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := state.RunIdleSweeper(gctx, cfg.SweepInterval, cfg.IdleTimeout)
		if err != nil && err != context.Canceled {
			return fmt.Errorf("idle sweeper: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
