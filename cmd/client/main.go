package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/palemoky/riddle-lobby/internal/config"
	"github.com/palemoky/riddle-lobby/internal/logger"
	"github.com/palemoky/riddle-lobby/internal/metrics"
	"github.com/palemoky/riddle-lobby/internal/sound"
	"github.com/palemoky/riddle-lobby/internal/transport"
	"github.com/palemoky/riddle-lobby/internal/ui"
	"github.com/palemoky/riddle-lobby/internal/ui/model"
)

const releaseVersion = "0.1.0"

func main() {
	cobra.CheckErr(newCmd(&flags{}).Execute())
}

func run(ctx context.Context, cfg *config.Config) error {
	clientID := uuid.NewString()

	if err := logger.Init(cfg.Log.Dir, cfg.Log.Debug, "client_id", clientID); err != nil {
		return err
	}
	defer logger.Close()
	l := logger.L()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, m)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	opts := model.Options{
		Dial: func() model.Conn {
			return transport.NewClient(cfg.Server.URL(), clientID, l)
		},
		CreateFlow: cfg.Session.CreateFlow,
		PlayerName: cfg.Session.PlayerName,
		ChatLimit:  cfg.Chat.MaxMessages,
		ChatLines:  cfg.Chat.VisibleLines,
		Logger:     l,
		Metrics:    m,
	}

	if cfg.Sound.Enabled {
		sm := sound.NewSoundManager(cfg.Sound.Dir)
		go func() {
			if err := sm.Init(); err != nil {
				l.Warnw("sound disabled", "error", err)
			}
		}()
		defer sm.Close()
		opts.Sound = sm
	}

	l.Infow("starting", "server", cfg.Server.URL(), "create_flow", cfg.Session.CreateFlow)
	return ui.Run(opts)
}

func serveMetrics(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Errorw("metrics server stopped", "error", err)
		}
	}()
	return srv
}
