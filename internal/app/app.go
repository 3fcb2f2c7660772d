// Package app wires the poll loop and its supporting services and runs them
// under one supervisor.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"matchwatch/internal/alert"
	"matchwatch/internal/config"
	"matchwatch/internal/eventbus"
	"matchwatch/internal/feed"
	"matchwatch/internal/health"
	"matchwatch/internal/match"
	"matchwatch/internal/notifier"
	"matchwatch/internal/poller"
	rtsup "matchwatch/internal/runtime/supervisor"
	"matchwatch/internal/schedule"
	"matchwatch/internal/statusbot"
	"matchwatch/internal/storage"
	logx "matchwatch/pkg/logx"
)

// Parts are the stateless pieces of one poll cycle. The `once` command uses
// them without starting the daemon.
type Parts struct {
	Feed     *feed.Client
	Terms    match.Terms
	Format   alert.Formatter
	Notifier *notifier.Telegram
	Schedule schedule.Spec
}

// BuildParts validates and assembles the cycle components from cfg.
func BuildParts(cfg *config.Config) (Parts, error) {
	terms, err := match.NewTerms(cfg.Poll.WatchTerms)
	if err != nil {
		return Parts{}, err
	}
	sched, err := schedule.Parse(cfg.Poll.Schedule)
	if err != nil {
		return Parts{}, err
	}
	return Parts{
		Feed:     feed.NewClient(cfg.Feed.URL, cfg.FetchTimeout()),
		Terms:    terms,
		Format:   mapFormatter(cfg),
		Notifier: notifier.NewTelegram(mapNotifierConfig(cfg)),
		Schedule: sched,
	}, nil
}

type App struct {
	cfg *config.Config

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	store    storage.Store
	recorder *storage.Recorder

	loop    *poller.Loop
	health  *health.Service
	tracker *statusbot.Tracker
	bot     *statusbot.Bot

	watchdog <-chan eventbus.Event
	unwatch  func()

	sup *rtsup.Supervisor
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	parts, err := BuildParts(cfg)
	if err != nil {
		return nil, err
	}

	logs, root := logx.New(mapLogConfig(cfg))
	log := root.With(logx.String("comp", "app"))
	bus := eventbus.New()

	a := &App{cfg: cfg, log: log, logs: logs, bus: bus}

	if sc, enabled := mapStorageConfig(cfg); enabled {
		st, err := storage.Open(sc, root)
		if err != nil {
			_ = logs.Close()
			return nil, err
		}
		a.store = st
		a.recorder = storage.NewRecorder(st, bus, root)
	}

	a.loop = poller.New(parts.Feed, parts.Notifier, parts.Terms, parts.Format, parts.Schedule,
		poller.WithLogger(root.With(logx.String("comp", "poller"))),
		poller.WithBus(bus),
	)

	if cfg.Health.Enabled {
		a.health = health.New(health.Config{Addr: cfg.Health.Addr}, root)
	}

	if cfg.Telegram.StatusBot {
		a.tracker = statusbot.NewTracker(bus, time.Now())
		bot, err := statusbot.New(mapStatusBotConfig(cfg), a.tracker, a.store, root)
		if err != nil {
			a.closeResources()
			return nil, err
		}
		a.bot = bot
	}

	a.watchdog, a.unwatch = bus.Subscribe(16)
	return a, nil
}

func (a *App) Logger() logx.Logger { return a.log }

// Loop exposes the poll loop for state inspection.
func (a *App) Loop() *poller.Loop { return a.loop }

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

// HealthAddr returns the bound liveness address, or "" when disabled.
func (a *App) HealthAddr() string {
	if a.health == nil {
		return ""
	}
	return a.health.Addr()
}

func (a *App) Start(ctx context.Context) error {
	if a.sup != nil {
		return errors.New("app already started")
	}
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))
	sup := a.sup

	a.log.Info("starting match watcher",
		logx.String("feed", a.cfg.Feed.URL),
		logx.String("schedule", a.cfg.Poll.Schedule),
		logx.Any("watch_terms", a.cfg.Poll.WatchTerms),
	)

	if a.recorder != nil {
		sup.Go("history.recorder", a.recorder.Run)
	}
	if a.tracker != nil {
		sup.Go("status.tracker", a.tracker.Run)
	}
	if a.bot != nil {
		sup.GoRestart("status.bot", a.bot.Run, rtsup.WithRestartBackoff(time.Second, time.Minute))
	}
	if a.logs.FilePath() != "" {
		sup.GoRestart("logx.watch", a.logs.WatchFile, rtsup.WithRestartBackoff(time.Second, 30*time.Second))
	}
	if a.health != nil {
		a.health.Start(sup.Context())
	}
	sup.Go("systemd.watchdog", a.runWatchdog)

	// The loop keeps its ledger across restarts because Run is a method on
	// the same Loop value.
	sup.GoRestart("poll.loop", a.loop.Run, rtsup.WithRestartBackoff(time.Second, 30*time.Second))

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		a.log.Warn("sd_notify ready failed", logx.Err(err))
	} else if ok {
		a.log.Debug("sd_notify ready sent")
	}
	return nil
}

// runWatchdog pings systemd after every completed cycle.
func (a *App) runWatchdog(ctx context.Context) error {
	defer a.unwatch()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-a.watchdog:
			if !ok {
				return nil
			}
			if e.Type != poller.EventCycleCompleted {
				continue
			}
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				a.log.Debug("sd_notify watchdog failed", logx.Err(err))
			}
		}
	}
}

// Stop cancels every task, waits for them within ctx, and releases files.
func (a *App) Stop(ctx context.Context) error {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	a.log.Info("shutting down")

	var err error
	if a.health != nil {
		if herr := a.health.Stop(ctx); herr != nil {
			err = herr
		}
	}
	if a.sup != nil {
		if serr := a.sup.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	} else {
		a.unwatch()
	}
	a.closeResources()
	return err
}

func (a *App) closeResources() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("failed to close storage", logx.Err(err))
		}
	}
	_ = a.logs.Close()
}
