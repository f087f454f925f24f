package event

import "reflect"

// Sink consumes records in emission order. Publish must not retain the
// calling goroutine beyond handling the record.
type Sink interface {
	Publish(r Record)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Record)

func (f SinkFunc) Publish(r Record) { f(r) }

// Discard drops every record.
var Discard Sink = SinkFunc(func(Record) {})

// Bus fans records out synchronously: attached sinks first, in attach
// order, then typed handlers for the record's concrete event type. There
// is no buffering; a record is fully delivered before Publish returns.
type Bus struct {
	sinks    []Sink
	handlers map[reflect.Type][]func(Record)
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]func(Record)),
	}
}

// Attach adds a sink that receives every record.
func (b *Bus) Attach(s Sink) {
	b.sinks = append(b.sinks, s)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T Event](b *Bus, fn func(turn uint32, ev T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(r Record) {
		if ev, ok := r.Event.(T); ok {
			fn(r.Turn, ev)
		}
	})
}

// Publish delivers r to every sink and matching handler.
func (b *Bus) Publish(r Record) {
	for _, s := range b.sinks {
		s.Publish(r)
	}
	for _, h := range b.handlers[reflect.TypeOf(r.Event)] {
		h(r)
	}
}

// Recorder keeps every record in memory.
type Recorder struct {
	Records []Record
}

func (r *Recorder) Publish(rec Record) {
	r.Records = append(r.Records, rec)
}

// Names returns the event names in emission order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Records))
	for i, rec := range r.Records {
		names[i] = rec.Event.Name()
	}
	return names
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Records = r.Records[:0]
}
