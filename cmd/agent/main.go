// DingDong - Remote-Controlled Doorbell Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dingdong

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tomtom215/dingdong/internal/asset"
	"github.com/tomtom215/dingdong/internal/config"
	"github.com/tomtom215/dingdong/internal/logging"
	"github.com/tomtom215/dingdong/internal/playback"
	"github.com/tomtom215/dingdong/internal/state"
	"github.com/tomtom215/dingdong/internal/status"
	"github.com/tomtom215/dingdong/internal/supervisor"
	"github.com/tomtom215/dingdong/internal/supervisor/services"
	agentsync "github.com/tomtom215/dingdong/internal/sync"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var (
		configPath  string
		checkOnly   bool
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("dingdong-agent", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "config file (default: $CONFIG_PATH, then ./config.yaml, /etc/dingdong/config.yaml)")
	flagSet.BoolVar(&checkOnly, "check", false, "fetch the configuration and sound once, then exit")
	flagSet.BoolVar(&showVersion, "version", false, "print the version and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if showVersion {
		fmt.Println("dingdong-agent", version)
		return
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())

	logging.Info().
		Str("version", version).
		Str("api_url", cfg.Agent.BaseURL()).
		Dur("poll_interval", cfg.Agent.PollInterval()).
		Str("trigger", cfg.Trigger.Source).
		Str("player", cfg.Playback.Engine).
		Str("config_file", cfg.File).
		Msg("Starting DingDong agent")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agentState := state.New()

	store, err := asset.NewStore(cfg.Asset.Dir, cfg.Asset.FileName)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to prepare asset directory")
	}

	client, breaker := newRemoteClient(cfg)
	synchronizer := agentsync.New(agentsync.Options{
		Client:   client,
		Store:    store,
		State:    agentState,
		Interval: cfg.Agent.PollInterval(),
	})

	// The agent does not start without having reached the server once.
	if err := synchronizer.Bootstrap(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Initial configuration fetch failed")
	}
	snap := agentState.Snapshot()
	logging.Info().
		Int("volume", snap.Volume).
		Str("sound_id", snap.SoundID).
		Str("pending_sound_id", snap.PendingSoundID).
		Msg("Initial sync complete")

	if checkOnly {
		if snap.PendingSoundID != "" {
			logging.Fatal().Str("pending_sound_id", snap.PendingSoundID).Msg("Sound download failed")
		}
		return
	}

	player, err := playback.New(playback.Options{
		Engine:  cfg.Playback.Engine,
		Command: cfg.Playback.Command,
		Args:    cfg.Playback.Args,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create player")
	}
	defer func() {
		if err := player.Stop(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop player")
		}
	}()

	listener, source := newListener(cfg, agentState, player)
	if source != nil {
		defer func() {
			if err := source.Close(); err != nil {
				logging.Warn().Err(err).Msg("Failed to close edge source")
			}
		}()
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddSyncService(synchronizer)

	var triggerStats status.TriggerReporter
	if listener != nil {
		tree.AddTriggerService(listener)
		triggerStats = listener
	}

	if cfg.Status.Enabled() {
		sources := status.Sources{
			State:   agentState,
			Sync:    synchronizer,
			Trigger: triggerStats,
			Version: version,
		}
		if breaker != nil {
			sources.Breaker = breaker
		}
		server := status.NewServer(cfg.Status.Addr, sources)
		tree.AddStatusService(services.NewHTTPServerService("status-server", server, 5*time.Second))
		logging.Info().Str("addr", server.Addr).Msg("Status server enabled")
	}

	if cfg.File != "" {
		watchConfig(cfg)
	}

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, stopping services")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("DingDong agent stopped")
}
