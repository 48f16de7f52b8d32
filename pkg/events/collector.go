package events

// EventCollector is embedded by aggregates. Events recorded during a state
// change stay pending until the owner drains them for publishing.
type EventCollector struct {
	pending []DomainEvent
}

// Record queues e for publishing.
func (c *EventCollector) Record(e DomainEvent) {
	c.pending = append(c.pending, e)
}

// Pending reports how many events are waiting to be drained.
func (c *EventCollector) Pending() int {
	return len(c.pending)
}

// Events returns a copy of the pending events, leaving them queued.
func (c *EventCollector) Events() []DomainEvent {
	return append([]DomainEvent(nil), c.pending...)
}

// ClearEvents drains the queue and returns what was pending.
func (c *EventCollector) ClearEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
