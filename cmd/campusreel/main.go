package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallard/campusreel/internal/app"
	"github.com/tallard/campusreel/internal/config"
	"github.com/tallard/campusreel/internal/logging"
	"github.com/tallard/campusreel/internal/netstatus"
	"github.com/tallard/campusreel/internal/remote"
	"github.com/tallard/campusreel/internal/storage"
	"github.com/tallard/campusreel/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.Nop()
	if cfg.LogPath != "" {
		fileLogger, closeLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			log.Fatalf("logging init error: %v", err)
		}
		defer closeLog()
		logger = fileLogger
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.DBPath).Msg("storage init failed")
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify CAMPUSREEL_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := remote.NewClient(cfg.StoreURL, cfg.APIKey, nil)

	prefs := app.Preferences{Autoplay: true, Captions: true, RankMode: "recency"}
	service := app.NewService(client, repo, nil)
	if loaded, err := service.LoadPreferences(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load preferences (%v), using defaults\n", err)
	} else {
		prefs = loaded
	}
	service = app.NewService(client, repo, app.StrategyFor(prefs.RankMode))

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	sub, err := client.Subscribe(runCtx, cfg.RefreshInterval, cfg.PageLimit)
	if err != nil {
		log.Fatalf("subscription error: %v", err)
	}
	defer sub.Close()

	prober := netstatus.NewProber(netstatus.DialChecker(probeAddr(cfg.StoreURL)), cfg.RefreshInterval)
	prober.Start(runCtx)
	defer prober.Stop()

	model := tui.NewModel(service, tui.Options{
		Logger:         logger,
		Pages:          sub.Items(),
		SubErrors:      sub.Errors(),
		NetworkChanges: prober.Changes(),
		Preferences: tui.Preferences{
			Autoplay: prefs.Autoplay,
			Captions: prefs.Captions,
			RankMode: prefs.RankMode,
		},
		SavePreferences: func(p tui.Preferences) error {
			saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer saveCancel()
			return service.SavePreferences(saveCtx, app.Preferences{
				Autoplay: p.Autoplay,
				Captions: p.Captions,
				RankMode: p.RankMode,
			})
		},
		PageLimit: cfg.PageLimit,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("tui crashed")
		log.Fatalf("tui error: %v", err)
	}
	logger.Info().Msg("session ended")
}

// probeAddr derives a dialable host:port from the store URL for the
// network prober.
func probeAddr(storeURL string) string {
	u, err := url.Parse(storeURL)
	if err != nil || u.Host == "" {
		return "1.1.1.1:443"
	}
	if _, _, err := net.SplitHostPort(u.Host); err == nil {
		return u.Host
	}
	port := "443"
	if u.Scheme == "http" {
		port = "80"
	}
	return net.JoinHostPort(u.Host, port)
}
