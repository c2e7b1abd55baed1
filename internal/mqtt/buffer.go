package mqtt

// pending is a serialized MQTT message held for replay after reconnection.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds messages published while the broker is unreachable. When full,
// the oldest message is overwritten; clock edits are most useful newest-first.
// Not safe for concurrent use; the caller must synchronize.
type outbox struct {
	ring    []pending
	next    int // write position
	n       int
	dropped int // overwritten since the last drain
}

func newOutbox(capacity int) *outbox {
	if capacity < 1 {
		capacity = 1
	}
	return &outbox{ring: make([]pending, capacity)}
}

func (o *outbox) push(m pending) {
	o.ring[o.next] = m
	o.next = (o.next + 1) % len(o.ring)
	if o.n == len(o.ring) {
		o.dropped++
		return
	}
	o.n++
}

// drain returns the held messages oldest first, and how many were lost to
// overflow, then empties the outbox.
func (o *outbox) drain() ([]pending, int) {
	dropped := o.dropped
	o.dropped = 0
	if o.n == 0 {
		return nil, dropped
	}

	out := make([]pending, 0, o.n)
	first := (o.next - o.n + len(o.ring)) % len(o.ring)
	for i := 0; i < o.n; i++ {
		out = append(out, o.ring[(first+i)%len(o.ring)])
	}
	o.n = 0
	o.next = 0
	return out, dropped
}

func (o *outbox) len() int {
	return o.n
}
