package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Broadcaster delivers announcements to the participants allowed to see them
// and to every sink. Sinks are omniscient: they receive scoped messages too.
type Broadcaster struct {
	roster *Roster
	log    *slog.Logger

	mu    sync.Mutex
	sinks []Sink
	seq   int64

	// set while a sink failure is being reported; announcements made from
	// that path skip the sinks
	recovering atomic.Bool
}

func NewBroadcaster(roster *Roster, log *slog.Logger, sinks ...Sink) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{roster: roster, log: log, sinks: sinks}
}

// AddSink attaches another sink.
func (b *Broadcaster) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Announce emits message. Empty visibleTo makes it public.
func (b *Broadcaster) Announce(message string, visibleTo []string, style Style) Announcement {
	b.mu.Lock()
	b.seq++
	a := Announcement{
		Seq:     b.seq,
		Message: message,
		Style:   style,
		At:      time.Now(),
	}
	if len(visibleTo) > 0 {
		a.VisibleTo = append([]string(nil), visibleTo...)
	}
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()

	scope := "public"
	if !a.Public() {
		scope = "private"
	}
	announcementsTotal.WithLabelValues(scope).Inc()

	b.deliver(a)

	if !b.recovering.Load() {
		for _, s := range sinks {
			b.emit(s, a)
		}
	}
	return a
}

func (b *Broadcaster) deliver(a Announcement) {
	if a.Public() {
		for _, name := range b.roster.Names() {
			if p, ok := b.roster.Participant(name); ok {
				p.Receive(a)
			}
		}
		return
	}

	seen := make(map[string]struct{}, len(a.VisibleTo))
	for _, name := range a.VisibleTo {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if p, ok := b.roster.Participant(name); ok {
			p.Receive(a)
		}
	}
}

func (b *Broadcaster) emit(s Sink, a Announcement) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sink panic: %v", r)
			}
		}()
		return s.Emit(a)
	}()
	if err == nil {
		return
	}

	sinkErrorsTotal.Inc()
	if !b.recovering.CompareAndSwap(false, true) {
		return
	}
	defer b.recovering.Store(false)
	b.log.Error("announcement sink failed", "seq", a.Seq, "error", err)
}

// MultiSink fans an announcement out to several sinks and joins their errors.
type MultiSink []Sink

func (m MultiSink) Emit(a Announcement) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(a Announcement) error

func (f SinkFunc) Emit(a Announcement) error {
	return f(a)
}
