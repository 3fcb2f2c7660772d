// Package statusbot answers operator commands (/ping, /status) in the alert
// chat. It reads poll loop activity from the event bus and never touches the
// dedup ledger.
package statusbot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"matchwatch/internal/storage"
	logx "matchwatch/pkg/logx"
)

type Config struct {
	Token       string
	ChatID      string
	APIURL      string
	PollTimeout time.Duration
}

type Bot struct {
	cfg     Config
	log     logx.Logger
	bot     *tele.Bot
	tracker *Tracker
	history storage.Store
	now     func() time.Time
}

// New builds the bot without contacting Telegram. history may be nil.
func New(cfg Config, tracker *Tracker, history storage.Store, log logx.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	b, err := tele.NewBot(tele.Settings{
		Token:     cfg.Token,
		URL:       strings.TrimRight(cfg.APIURL, "/"),
		Poller:    &tele.LongPoller{Timeout: cfg.PollTimeout},
		ParseMode: tele.ModeHTML,
		// getMe is deferred to the first poll so startup never blocks on Telegram.
		Offline: true,
		OnError: func(err error, _ tele.Context) {
			log.Warn("telegram handler error", logx.Err(err))
		},
	})
	if err != nil {
		return nil, err
	}
	sb := &Bot{cfg: cfg, log: log.With(logx.String("comp", "statusbot")), bot: b, tracker: tracker, history: history, now: time.Now}
	sb.register()
	return sb, nil
}

func (b *Bot) register() {
	b.bot.Use(b.onlyConfiguredChat)
	b.bot.Handle("/ping", func(c tele.Context) error { return c.Send("pong") })
	b.bot.Handle("/status", func(c tele.Context) error { return c.Send(b.StatusText(context.Background())) })
}

func (b *Bot) onlyConfiguredChat(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !ChatAllowed(b.cfg.ChatID, c.Chat()) {
			return nil
		}
		return next(c)
	}
}

// ChatAllowed matches chat against the configured chat id, which may be a
// numeric id or an @username.
func ChatAllowed(want string, chat *tele.Chat) bool {
	want = strings.TrimSpace(want)
	if chat == nil || want == "" {
		return false
	}
	if strings.HasPrefix(want, "@") {
		return strings.EqualFold(strings.TrimPrefix(want, "@"), chat.Username)
	}
	return want == strconv.FormatInt(chat.ID, 10)
}

// StatusText renders the current stats plus the last few history entries.
func (b *Bot) StatusText(ctx context.Context) string {
	var recent []storage.AlertEntry
	if b.history != nil {
		hctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		var err error
		recent, err = b.history.Recent(hctx, 5)
		cancel()
		if err != nil {
			b.log.Warn("failed to read alert history", logx.Err(err))
		}
	}
	return RenderStatus(b.tracker.Snapshot(), b.now(), recent)
}

// Run long-polls until ctx is canceled. An unexpected poller exit is
// returned as an error so the caller's restart loop brings it back.
func (b *Bot) Run(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			b.bot.Stop()
		case <-stopped:
		}
	}()
	b.log.Info("polling started")
	b.bot.Start()
	close(stopped)
	b.log.Info("polling stopped")
	if ctx.Err() != nil {
		return nil
	}
	return errors.New("telegram poller exited")
}
