package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-panel-bot/config"
	"discord-panel-bot/cooldown"
	"discord-panel-bot/db"
	"discord-panel-bot/handler"
	"discord-panel-bot/logger"
	"discord-panel-bot/server"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	logg := logger.New(os.Stdout, cfg.Debug)
	slog.SetDefault(logg)

	store, err := db.Open(db.Options{
		Backend:      cfg.StoreBackend,
		MessagesFile: cfg.DataFile,
		TriggersFile: cfg.TriggerFile,
		BoltPath:     cfg.DBPath,
		SQLitePath:   cfg.SQLitePath,
		Logger:       logg,
	})
	if err != nil {
		log.Fatalf("FATAL: Error opening store: %v", err)
	}
	defer store.Close()

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatalf("FATAL: Error creating Discord session: %v", err)
	}

	limiter := cooldown.New(cfg.TriggerCooldown)
	h := handler.New(dg, dg.State, store, limiter, handler.Options{
		TriggerPrefix:     cfg.TriggerPrefix,
		CooldownNoticeTTL: cfg.CooldownNoticeTTL,
		Logger:            logg,
	})
	defer h.Close()

	// 1. Register Handlers
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logg.Info("✅ logged in", "user", r.User.Username+"#"+r.User.Discriminator)
	})
	dg.AddHandler(h.MessageCreate)     // m!<trigger> auto-reply
	dg.AddHandler(h.InteractionCreate) // slash commands and panel buttons

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	if err = dg.Open(); err != nil {
		log.Fatalf("FATAL: Error opening connection: %v", err)
	}
	defer dg.Close()

	// 2. Register slash commands (globally unless GUILD_ID is set)
	logg.Info("registering slash commands", "guild", cfg.GuildID)
	if _, err := dg.ApplicationCommandBulkOverwrite(dg.State.User.ID, cfg.GuildID, handler.Commands()); err != nil {
		logg.Error("registering slash commands", "err", err)
	}

	// 3. Sweep expired cooldown entries
	sched := cron.New(cron.WithLocation(time.UTC))
	if _, err := sched.AddFunc(cfg.CooldownSweep, func() {
		if n := limiter.Sweep(time.Now()); n > 0 {
			logg.Debug("swept cooldown entries", "removed", n, "remaining", limiter.Len())
		}
	}); err != nil {
		log.Fatalf("FATAL: invalid COOLDOWN_SWEEP %q: %v", cfg.CooldownSweep, err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	// 4. Keep-alive HTTP server
	srv := server.New(cfg.Port, server.NewRouter(store, limiter, logg))
	go func() {
		logg.Info("keep-alive listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("keep-alive server", "err", err)
		}
	}()

	logg.Info("✅ Bot is running with Slash Commands active.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("keep-alive shutdown", "err", err)
	}
}
