package main

import (
	"database/sql"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	eventLogBuffer     = 1024
	eventLogBatchSize  = 50
	eventLogFlushEvery = 5 * time.Second
)

// LoggedEvent is one level event queued for persistence
type LoggedEvent struct {
	SessionID string
	Kind      EventKind
	EntityID  string
	Tick      uint64
	Timestamp time.Time
}

// EventLog persists level events with batched background writes
type EventLog struct {
	db     *DB
	log    zerolog.Logger
	events chan LoggedEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int
}

// NewEventLog creates and starts the background writer
func NewEventLog(db *DB, log zerolog.Logger) *EventLog {
	e := &EventLog{
		db:     db,
		log:    log,
		events: make(chan LoggedEvent, eventLogBuffer),
		stop:   make(chan struct{}),
	}
	e.wg.Add(1)
	go e.writer()
	return e
}

// Track enqueues an event for async persistence (non-blocking)
func (e *EventLog) Track(sessionID string, tick uint64, ev Event) {
	if e == nil {
		return
	}
	select {
	case e.events <- LoggedEvent{
		SessionID: sessionID,
		Kind:      ev.Kind,
		EntityID:  ev.EntityID,
		Tick:      tick,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// full: drop rather than stall the tick
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
	}
}

// Dropped returns how many events were dropped because the queue was full
func (e *EventLog) Dropped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Stop flushes pending events and shuts down the writer
func (e *EventLog) Stop() {
	close(e.stop)
	e.wg.Wait()
}

func (e *EventLog) writer() {
	defer e.wg.Done()

	batch := make([]LoggedEvent, 0, eventLogBatchSize)
	ticker := time.NewTicker(eventLogFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-e.events:
			batch = append(batch, evt)
			if len(batch) >= eventLogBatchSize {
				e.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				e.flush(batch)
				batch = batch[:0]
			}
		case <-e.stop:
			for {
				select {
				case evt := <-e.events:
					batch = append(batch, evt)
				default:
					e.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events in one transaction
func (e *EventLog) flush(events []LoggedEvent) {
	if e.db == nil || len(events) == 0 {
		return
	}
	tx, err := e.db.conn.Begin()
	if err != nil {
		e.log.Error().Err(err).Msg("event log: begin tx")
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (session_id, kind, entity_id, tick, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		e.log.Error().Err(err).Msg("event log: prepare")
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		eid := sql.NullString{String: evt.EntityID, Valid: evt.EntityID != ""}
		if _, err := stmt.Exec(evt.SessionID, string(evt.Kind), eid, evt.Tick, evt.Timestamp.Format(time.RFC3339)); err != nil {
			e.log.Warn().Err(err).Msg("event log: insert")
		}
	}
	if err := tx.Commit(); err != nil {
		e.log.Error().Err(err).Msg("event log: commit")
	}
}

// EventCounts returns how many events of each kind a session produced
func (e *EventLog) EventCounts(sessionID string) (map[EventKind]int, error) {
	if e.db == nil {
		return nil, nil
	}
	rows, err := e.db.conn.Query(`
		SELECT kind, COUNT(*) FROM events
		WHERE session_id = ?
		GROUP BY kind`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[EventKind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		result[EventKind(kind)] = count
	}
	return result, rows.Err()
}
