package statusbot

import (
	"context"
	"sync"
	"time"

	"matchwatch/internal/eventbus"
	"matchwatch/internal/poller"
)

// Stats is what the status command reports. It is built only from bus events.
type Stats struct {
	StartedAt time.Time

	Cycles       int
	LastCycleAt  time.Time
	LastFetched  int
	LastFetchErr string
	FetchFails   int

	Sent    int
	Failed  int
	Skipped int

	LastAlertAt    time.Time
	LastAlertTeams string
	LastAlertOK    bool
}

// Tracker folds poll loop events into Stats.
type Tracker struct {
	mu    sync.RWMutex
	stats Stats

	events <-chan eventbus.Event
	unsub  func()
}

func NewTracker(bus eventbus.Bus, startedAt time.Time) *Tracker {
	ch, unsub := bus.Subscribe(64)
	return &Tracker{stats: Stats{StartedAt: startedAt}, events: ch, unsub: unsub}
}

// Run consumes events until ctx is done or the subscription closes.
func (t *Tracker) Run(ctx context.Context) error {
	defer t.unsub()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-t.events:
			if !ok {
				return nil
			}
			t.apply(e)
		}
	}
}

func (t *Tracker) Snapshot() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}

func (t *Tracker) apply(e eventbus.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := &t.stats

	switch e.Type {
	case poller.EventCycleCompleted:
		rep, ok := e.Data.(poller.CycleReport)
		if !ok {
			return
		}
		s.Cycles++
		s.LastCycleAt = rep.StartedAt.Add(rep.Duration)
		if rep.FetchErr != nil {
			s.FetchFails++
			s.LastFetchErr = rep.FetchErr.Error()
			return
		}
		s.LastFetched = rep.Fetched
		s.LastFetchErr = ""
	case poller.EventAlertSent, poller.EventAlertFailed:
		ev, ok := e.Data.(poller.AlertEvent)
		if !ok {
			return
		}
		ok = e.Type == poller.EventAlertSent
		if ok {
			s.Sent++
		} else {
			s.Failed++
		}
		s.LastAlertAt = ev.At
		s.LastAlertTeams = ev.Teams
		s.LastAlertOK = ok
	case poller.EventAlertSkipped:
		s.Skipped++
	}
}
