// Package telemetry implements the accept/reject ledger: a process-
// lifetime, mutex-guarded record of which completions were shown for a
// request and whether one was ultimately accepted or rejected
// (spec.md §3/§7).
package telemetry

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Record is one request's accept/reject history. ShownCompletions and
// AcceptedCompletion are indices into the completions list returned by
// getCompletions, not the completion text itself, matching the original's
// custom-types/src/llm_ls.rs (accepted_completion/shown_completions: u32).
type Record struct {
	RequestID          uuid.UUID
	ShownCompletions   []int
	AcceptedCompletion *int
	Rejected           bool
}

// Ledger correlates request IDs to accept/reject feedback for the
// server's lifetime. Exactly one accept or one reject is honored per
// request ID; later events for the same ID, or events for an unknown ID,
// are logged and ignored rather than failing the caller.
type Ledger struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	log     *zap.SugaredLogger
}

// New builds an empty ledger. log may be nil, in which case dropped
// events are silently ignored rather than logged.
func New(log *zap.SugaredLogger) *Ledger {
	return &Ledger{
		records: make(map[uuid.UUID]*Record),
		log:     log,
	}
}

// RecordShown registers the completions shown for a fresh request ID, for
// later correlation by Accept/Reject.
func (l *Ledger) RecordShown(requestID uuid.UUID, shown []int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[requestID] = &Record{RequestID: requestID, ShownCompletions: shown}
}

// Accept records that acceptedCompletion was chosen from shownCompletions
// for requestID. An unknown request ID, or a request ID that already has
// an accept or reject recorded, is logged and ignored.
func (l *Ledger) Accept(requestID uuid.UUID, acceptedCompletion int, shownCompletions []int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[requestID]
	if !ok {
		l.warn("accept for unknown request", requestID)
		return
	}
	if rec.AcceptedCompletion != nil || rec.Rejected {
		l.warn("duplicate accept/reject for request", requestID)
		return
	}
	rec.AcceptedCompletion = &acceptedCompletion
}

// Reject records that no completion was accepted for requestID. Same
// duplicate/unknown-ID handling as Accept.
func (l *Ledger) Reject(requestID uuid.UUID, shownCompletions []int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[requestID]
	if !ok {
		l.warn("reject for unknown request", requestID)
		return
	}
	if rec.AcceptedCompletion != nil || rec.Rejected {
		l.warn("duplicate accept/reject for request", requestID)
		return
	}
	rec.Rejected = true
}

// Get returns the record for requestID, if any.
func (l *Ledger) Get(requestID uuid.UUID) (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[requestID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

func (l *Ledger) warn(msg string, requestID uuid.UUID) {
	if l.log != nil {
		l.log.Warnw(msg, "request_id", requestID.String())
	}
}
