package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "spacewars-server"

// Metrics records simulation counters through the global meter provider.
// Without an SDK installed the instruments are no-ops.
type Metrics struct {
	ticks     metric.Int64Counter
	tickTime  metric.Float64Histogram
	destroyed metric.Int64Counter
	fired     metric.Int64Counter
	outcomes  metric.Int64Counter

	sessions   atomic.Int64
	liveAI     atomic.Int64
	liveLasers atomic.Int64
}

// NewMetrics creates the instruments
func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	mt := &Metrics{}
	var err error

	mt.ticks, err = m.Int64Counter("level.ticks",
		metric.WithDescription("Simulation ticks run"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}
	mt.tickTime, err = m.Float64Histogram("level.tick.duration",
		metric.WithDescription("Wall time spent in one tick"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	mt.destroyed, err = m.Int64Counter("level.ships.destroyed",
		metric.WithDescription("AI ships destroyed"))
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}
	mt.fired, err = m.Int64Counter("level.lasers.fired",
		metric.WithDescription("Lasers fired"))
	if err != nil {
		return nil, fmt.Errorf("creating fired counter: %w", err)
	}
	mt.outcomes, err = m.Int64Counter("level.outcomes",
		metric.WithDescription("Levels finished, by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating outcome counter: %w", err)
	}

	sessions, err := m.Int64ObservableGauge("sessions.active",
		metric.WithDescription("Sessions currently running"))
	if err != nil {
		return nil, fmt.Errorf("creating sessions gauge: %w", err)
	}
	ai, err := m.Int64ObservableGauge("level.ai.live",
		metric.WithDescription("AI ships alive across running levels"))
	if err != nil {
		return nil, fmt.Errorf("creating AI gauge: %w", err)
	}
	lasers, err := m.Int64ObservableGauge("level.lasers.live",
		metric.WithDescription("Lasers in flight across running levels"))
	if err != nil {
		return nil, fmt.Errorf("creating lasers gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(sessions, mt.sessions.Load())
		o.ObserveInt64(ai, mt.liveAI.Load())
		o.ObserveInt64(lasers, mt.liveLasers.Load())
		return nil
	}, sessions, ai, lasers)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}
	return mt, nil
}

// Tick records one simulation tick that took d
func (m *Metrics) Tick(d time.Duration) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.ticks.Add(ctx, 1)
	m.tickTime.Record(ctx, float64(d.Microseconds())/1000)
}

// Event counts a level event
func (m *Metrics) Event(ev Event) {
	if m == nil {
		return
	}
	switch ev.Kind {
	case EventDestroyed:
		m.destroyed.Add(context.Background(), 1)
	case EventFired:
		m.fired.Add(context.Background(), 1)
	}
}

// Outcome counts a finished level
func (m *Metrics) Outcome(o Outcome, d Difficulty) {
	if m == nil {
		return
	}
	m.outcomes.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", o.String()),
		attribute.String("difficulty", d.String()),
	))
}

// SessionStarted and SessionEnded track the active session gauge
func (m *Metrics) SessionStarted() {
	if m != nil {
		m.sessions.Add(1)
	}
}

func (m *Metrics) SessionEnded() {
	if m != nil {
		m.sessions.Add(-1)
	}
}

// Live adjusts the live AI ship and laser gauges by the given deltas
func (m *Metrics) Live(ai, lasers int) {
	if m == nil {
		return
	}
	m.liveAI.Add(int64(ai))
	m.liveLasers.Add(int64(lasers))
}
