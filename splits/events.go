package splits

import (
	"sync"

	"github.com/splitsorg/libsplits-go/splitcfg"
)

// EventType identifies a registry notification.
type EventType uint8

const (
	EventCreateSplit EventType = iota + 1
	EventUpdateSplit
	EventDistribute
	EventWithdrawal
	EventInitiateControlTransfer
	EventCancelControlTransfer
	EventControlTransfer
	EventMakeSplitImmutable
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventCreateSplit:
		return "create_split"
	case EventUpdateSplit:
		return "update_split"
	case EventDistribute:
		return "distribute"
	case EventWithdrawal:
		return "withdrawal"
	case EventInitiateControlTransfer:
		return "initiate_control_transfer"
	case EventCancelControlTransfer:
		return "cancel_control_transfer"
	case EventControlTransfer:
		return "control_transfer"
	case EventMakeSplitImmutable:
		return "make_split_immutable"
	}
	return "unknown"
}

// Event carries the effective arguments of a mutating registry operation,
// enough for an observer to reconstruct state without re-reading storage.
// Fields not relevant to the event type are zero.
type Event struct {
	Type  EventType
	Split splitcfg.Address

	// Hash is the configuration commitment (create, update).
	Hash splitcfg.Commitment

	// Controller fields (create, control transfers).
	Controller         splitcfg.Address
	PreviousController splitcfg.Address
	PendingController  splitcfg.Address

	// Distribution fields. Amount is the distributed total (fee included).
	Asset       splitcfg.Asset
	Amount      uint64
	Distributor splitcfg.Address

	// Withdrawal fields.
	Account   splitcfg.Address
	Withdrawn map[splitcfg.Asset]uint64
}

// Sink receives registry events. Emit is called synchronously after the
// operation's state changes have committed.
type Sink interface {
	Emit(ev Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// MemSink records events in order, for tests and in-process observers.
type MemSink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemSink creates an empty event recorder.
func NewMemSink() *MemSink {
	return &MemSink{}
}

// Emit appends the event.
func (s *MemSink) Emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Events returns a copy of all recorded events.
func (s *MemSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Last returns the most recent event, or a zero Event if none.
func (s *MemSink) Last() Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return Event{}
	}
	return s.events[len(s.events)-1]
}
