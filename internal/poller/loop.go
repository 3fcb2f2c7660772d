// Package poller runs the fetch → match → notify cycle on a fixed cadence.
//
// The Loop owns the dedup ledger. Every identifier is marked after its first
// notification attempt, whether or not delivery succeeded, so a match is
// notified at most once per process lifetime. A failed delivery is logged
// and never retried.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"matchwatch/internal/alert"
	"matchwatch/internal/eventbus"
	"matchwatch/internal/feed"
	"matchwatch/internal/ledger"
	"matchwatch/internal/match"
	"matchwatch/internal/schedule"
	logx "matchwatch/pkg/logx"
)

// Fetcher returns the current feed snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (feed.Result, error)
}

// Notifier delivers one payload.
type Notifier interface {
	Send(ctx context.Context, p alert.Payload) error
}

type Loop struct {
	fetcher  Fetcher
	notifier Notifier
	terms    match.Terms
	format   alert.Formatter
	sched    schedule.Spec

	ledger *ledger.Ledger

	log logx.Logger
	bus eventbus.Bus
	now func() time.Time

	state atomic.Int32
}

type Option func(*Loop)

func WithLogger(log logx.Logger) Option { return func(l *Loop) { l.log = log } }

func WithBus(bus eventbus.Bus) Option { return func(l *Loop) { l.bus = bus } }

// WithClock injects the time source used for payload timestamps and sleeps.
func WithClock(now func() time.Time) Option { return func(l *Loop) { l.now = now } }

func New(f Fetcher, n Notifier, terms match.Terms, format alert.Formatter, sched schedule.Spec, opts ...Option) *Loop {
	l := &Loop{
		fetcher:  f,
		notifier: n,
		terms:    terms,
		format:   format,
		sched:    sched,
		ledger:   ledger.New(),
		log:      logx.Nop(),
		bus:      eventbus.Nop{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	if l.log.IsZero() {
		l.log = logx.Nop()
	}
	if l.bus == nil {
		l.bus = eventbus.Nop{}
	}
	return l
}

// State returns the current loop state.
func (l *Loop) State() State { return State(l.state.Load()) }

func (l *Loop) setState(s State) {
	prev := State(l.state.Swap(int32(s)))
	if prev != s {
		l.log.Debug("state", logx.String("from", prev.String()), logx.String("to", s.String()))
	}
}

// Run executes cycles until ctx is cancelled. It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("poll loop started",
		logx.String("schedule", l.sched.String()),
		logx.Int("watch_terms", l.terms.Len()),
	)
	defer l.setState(StateIdle)

	for {
		if ctx.Err() != nil {
			l.log.Info("poll loop stopped")
			return nil
		}

		l.RunCycle(ctx)

		l.setState(StateSleeping)
		wait := l.sched.Wait(l.now())
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			l.log.Info("poll loop stopped")
			return nil
		case <-t.C:
		}
		l.setState(StateIdle)
	}
}

// RunCycle performs one fetch/evaluate/notify pass. Failures are logged and
// reported, never returned.
func (l *Loop) RunCycle(ctx context.Context) CycleReport {
	rep := CycleReport{CycleID: uuid.NewString(), StartedAt: l.now()}
	log := l.log.With(logx.String("cycle", rep.CycleID[:8]))
	defer func() {
		rep.Duration = l.now().Sub(rep.StartedAt)
		l.bus.Publish(eventbus.Event{Type: EventCycleCompleted, Data: rep})
	}()

	l.bus.Publish(eventbus.Event{Type: EventCycleStarted, Data: rep.CycleID})
	log.Debug("cycle started")

	l.setState(StateFetching)
	res, err := l.fetcher.Fetch(ctx)
	if err != nil {
		rep.FetchErr = err
		log.Warn("failed to fetch matches", logx.Err(err))
		l.bus.Publish(eventbus.Event{Type: EventFetchFailed, Data: err.Error()})
		return rep
	}
	rep.Fetched = len(res.Records)
	rep.Skipped = res.Skipped
	log.Info("retrieved matches from feed", logx.Int("count", rep.Fetched), logx.Int("skipped", rep.Skipped))

	l.setState(StateEvaluating)
	for _, rec := range res.Records {
		term, ok := l.terms.FirstMatch(rec)
		if !ok {
			continue
		}
		rep.Matched++
		if ctx.Err() != nil {
			// Shutting down: start no new sends.
			break
		}
		l.handleMatch(ctx, log, &rep, rec, term)
	}
	if rep.Matched == 0 {
		log.Info("no watched match found yet")
	}
	return rep
}

func (l *Loop) handleMatch(ctx context.Context, log logx.Logger, rep *CycleReport, rec feed.MatchRecord, term string) {
	id := rec.ID()
	d := alert.Resolve(rec)
	ev := AlertEvent{CycleID: rep.CycleID, MatchID: id, Teams: d.Team1 + " vs " + d.Team2, Term: term}

	if l.ledger.Seen(id) {
		rep.AlreadyAlerted++
		log.Info("match already alerted previously", logx.String("match_id", d.ID))
		l.bus.Publish(eventbus.Event{Type: EventAlertSkipped, Data: ev})
		return
	}

	l.setState(StateNotifying)
	defer l.setState(StateEvaluating)

	ev.At = l.now()
	payload := l.format.Format(rec, ev.At)
	err := l.notifier.Send(ctx, payload)

	// At-most-once: mark whatever the delivery outcome was.
	l.ledger.Mark(id)

	if err != nil {
		rep.Failed++
		ev.Error = err.Error()
		log.Warn("alert delivery failed; match will not be retried",
			logx.String("match_id", d.ID),
			logx.String("teams", ev.Teams),
			logx.Err(err),
		)
		l.bus.Publish(eventbus.Event{Type: EventAlertFailed, Data: ev})
		return
	}
	rep.Sent++
	log.Info("alert sent",
		logx.String("match_id", d.ID),
		logx.String("teams", ev.Teams),
		logx.String("term", term),
	)
	l.bus.Publish(eventbus.Event{Type: EventAlertSent, Data: ev})
}
