package storage

import (
	"context"
	"time"

	"matchwatch/internal/eventbus"
	"matchwatch/internal/poller"
	logx "matchwatch/pkg/logx"
)

// Recorder appends alert.sent and alert.failed events to a Store.
type Recorder struct {
	store Store
	log   logx.Logger

	events <-chan eventbus.Event
	unsub  func()
}

// NewRecorder subscribes immediately so no event published after it returns
// is missed.
func NewRecorder(store Store, bus eventbus.Bus, log logx.Logger) *Recorder {
	if log.IsZero() {
		log = logx.Nop()
	}
	ch, unsub := bus.Subscribe(64)
	return &Recorder{store: store, log: log.With(logx.String("comp", "history")), events: ch, unsub: unsub}
}

// Run consumes events until ctx is done or the subscription closes.
func (r *Recorder) Run(ctx context.Context) error {
	defer r.unsub()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-r.events:
			if !ok {
				return nil
			}
			r.handle(ctx, e)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, e eventbus.Event) {
	if e.Type != poller.EventAlertSent && e.Type != poller.EventAlertFailed {
		return
	}
	ev, ok := e.Data.(poller.AlertEvent)
	if !ok {
		return
	}
	at := ev.At
	if at.IsZero() {
		at = e.Time
	}
	entry := AlertEntry{
		At:      at,
		CycleID: ev.CycleID,
		MatchID: ev.MatchID,
		Teams:   ev.Teams,
		Term:    ev.Term,
		OK:      e.Type == poller.EventAlertSent,
		Error:   ev.Error,
	}
	wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.store.AppendAlert(wctx, entry); err != nil {
		r.log.Warn("failed to record alert", logx.String("match_id", ev.MatchID), logx.Err(err))
	}
}
