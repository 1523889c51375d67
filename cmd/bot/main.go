package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditimpl "github.com/vodinokreas/dutybot/external/audit"
	configloader "github.com/vodinokreas/dutybot/external/config"
	"github.com/vodinokreas/dutybot/external/discord"
	"github.com/vodinokreas/dutybot/external/keepalive"
	storeimpl "github.com/vodinokreas/dutybot/external/store"
	"github.com/vodinokreas/dutybot/internal/config"
	discordpkg "github.com/vodinokreas/dutybot/internal/discord"
	"github.com/vodinokreas/dutybot/internal/duty"
	"github.com/samber/do/v2"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching duty bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	storeimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	auditimpl.RegisterDI(injector)
	keepalive.RegisterDI(injector)
	duty.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	engine, err := do.Invoke[*duty.Engine](injector)
	if err != nil {
		slog.Error("failed to resolve duty engine", "error", err)
		os.Exit(1)
	}

	if err := dc.UpsertGuildSlashCommands(cfg.DiscordGuildID, duty.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}

	dc.RegisterSlashCommandHandler(engine.HandleSlashCommand)
	dc.RegisterComponentHandler(engine.HandleComponent)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID)
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	server, err := do.Invoke[*keepalive.Server](injector)
	if err != nil {
		slog.Error("failed to resolve keep-alive server", "error", err)
		os.Exit(1)
	}
	server.Start()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}
}
