// internal/event/event.go
package event

// EventType names an event.
type EventType string

// Event is a value-typed notification; Data holds one of the payload structs in types.go.
type Event struct {
	Type EventType
	Data interface{}
}

// Listener receives dispatched events.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(event Event)

func (f ListenerFunc) OnEvent(event Event) { f(event) }

// Dispatcher queues events during a tick and delivers them at the tick boundary.
type Dispatcher struct {
	listeners map[EventType][]Listener
	all       []Listener
	queue     []Event

	// MaxEffects caps Effect events per flush; zero means unlimited.
	MaxEffects int
	effects    int
	dropped    int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe registers listener for one event type.
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) {
	d.listeners[eventType] = append(d.listeners[eventType], listener)
}

// SubscribeAll registers listener for every event type.
func (d *Dispatcher) SubscribeAll(listener Listener) {
	d.all = append(d.all, listener)
}

func (d *Dispatcher) Unsubscribe(eventType EventType, listener Listener) {
	if listeners, exists := d.listeners[eventType]; exists {
		for i, l := range listeners {
			if l == listener {
				d.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Emit queues an event for the next Flush. Effect events beyond MaxEffects are dropped.
func (d *Dispatcher) Emit(eventType EventType, data interface{}) {
	if eventType == Effect && d.MaxEffects > 0 {
		if d.effects >= d.MaxEffects {
			d.dropped++
			return
		}
		d.effects++
	}
	d.queue = append(d.queue, Event{Type: eventType, Data: data})
}

// Dispatch delivers an event immediately.
func (d *Dispatcher) Dispatch(event Event) {
	if listeners, exists := d.listeners[event.Type]; exists {
		for _, listener := range listeners {
			listener.OnEvent(event)
		}
	}
	for _, listener := range d.all {
		listener.OnEvent(event)
	}
}

// Flush delivers queued events in emission order and returns how many were sent.
// Events emitted by listeners during a flush are delivered in the same flush.
func (d *Dispatcher) Flush() int {
	n := 0
	for len(d.queue) > 0 {
		batch := d.queue
		d.queue = nil
		for _, e := range batch {
			d.Dispatch(e)
			n++
		}
	}
	d.effects = 0
	return n
}

// Discard drops every queued event without delivering it.
func (d *Dispatcher) Discard() {
	d.queue = nil
	d.effects = 0
}

// Pending is the number of queued events.
func (d *Dispatcher) Pending() int { return len(d.queue) }

// Dropped is the total number of Effect events dropped by the cap.
func (d *Dispatcher) Dropped() int { return d.dropped }
