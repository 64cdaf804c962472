package fare

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyfare/backend/internal/domain"
	"github.com/skyfare/backend/internal/monitoring"
)

type Config struct {
	// EscalationThreshold is the cumulative attempt count at which the quoted
	// price moves to the demand price. Count-based only, no time window.
	EscalationThreshold int
	// MarkupPercent is applied to the original price on escalation.
	MarkupPercent int
	// Cooldown is how long after the last attempt an escalated price holds.
	Cooldown time.Duration
	// SweepInterval is the cadence of the background decay sweep.
	SweepInterval time.Duration
}

// Tracker owns the mutable pricing state of every flight in the current
// catalog snapshot. It is the only writer of that state; readers get copies.
type Tracker struct {
	mu      sync.Mutex
	flights map[string]*domain.Flight

	cfg     Config
	log     *logrus.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

type TrackerOption func(*Tracker)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithMetrics(m *monitoring.Metrics) TrackerOption {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func NewTracker(cfg Config, log *logrus.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		flights: make(map[string]*domain.Flight),
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register adds flights to the tracked snapshot and returns the tracked state
// for each. Flights already tracked keep their attempt and price state, so a
// repeated search does not reset escalation.
func (t *Tracker) Register(flights []domain.Flight) []domain.Flight {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	out := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		tracked, ok := t.flights[f.ID]
		if !ok {
			copied := f
			copied.Price = copied.OriginalPrice
			copied.BookingAttempts = 0
			copied.LastAttemptTime = nil
			t.flights[f.ID] = &copied
			tracked = &copied
		} else {
			t.decayLocked(tracked, now)
		}
		out = append(out, *tracked)
	}
	return out
}

// Get returns a snapshot of the tracked flight, applying lazy decay first.
func (t *Tracker) Get(id string) (*domain.Flight, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.flights[id]
	if !ok {
		return nil, false
	}
	t.decayLocked(f, t.now())
	snapshot := *f
	return &snapshot, true
}

// RecordAttempt registers a booking attempt against the flight and escalates
// the quoted price once the cumulative attempt count reaches the threshold.
func (t *Tracker) RecordAttempt(id string) (*domain.Flight, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, ok := t.flights[id]
	if !ok {
		return nil, domain.ErrUnknownFlight
	}

	now := t.now()
	f.BookingAttempts++
	f.LastAttemptTime = &now

	if f.BookingAttempts >= t.cfg.EscalationThreshold {
		escalated := t.demandPrice(f.OriginalPrice)
		if f.Price != escalated {
			f.Price = escalated
			if t.metrics != nil {
				t.metrics.FareEscalations.Inc()
			}
			t.log.WithFields(logrus.Fields{
				"flight_id": f.ID,
				"attempts":  f.BookingAttempts,
				"price":     f.Price,
			}).Info("fare escalated")
		}
	}

	snapshot := *f
	return &snapshot, nil
}

// DecayIfStale reverts an escalated price once the cooldown since the last
// attempt has passed. Repeated calls after a reset are no-ops.
func (t *Tracker) DecayIfStale(id string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if f, ok := t.flights[id]; ok {
		t.decayLocked(f, now)
	}
}

func (t *Tracker) decayLocked(f *domain.Flight, now time.Time) {
	if f.LastAttemptTime == nil {
		return
	}
	if now.Sub(*f.LastAttemptTime) <= t.cfg.Cooldown {
		return
	}
	if f.Price == f.OriginalPrice {
		return
	}

	f.Price = f.OriginalPrice
	f.BookingAttempts = 0
	f.LastAttemptTime = nil
	t.log.WithField("flight_id", f.ID).Info("fare decayed to original price")
}

// Sweep runs the periodic decay pass until the context is canceled. The sweep
// is advisory housekeeping: reads decay lazily on their own.
func (t *Tracker) Sweep(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.sweepOnce()
		case <-ctx.Done():
			return
		}
	}
}

func (t *Tracker) sweepOnce() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for _, f := range t.flights {
		t.decayLocked(f, now)
	}
}

func (t *Tracker) demandPrice(original int64) int64 {
	markup := 1 + float64(t.cfg.MarkupPercent)/100
	return int64(math.Round(float64(original) * markup))
}
