package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// OutboxSize is how many messages are held while the broker is unreachable.
const OutboxSize = 64

// RealPublisher publishes to an actual MQTT broker. Messages published while
// disconnected are held in an outbox and replayed, oldest first, on reconnect.
type RealPublisher struct {
	client paho.Client

	mu       sync.Mutex
	outbox   *outbox
	connects int
}

// NewRealPublisher starts connecting to broker in the background and returns
// immediately; the clock must run whether or not the broker is up.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{outbox: newOutbox(OutboxSize)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(WillPayload()), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect replays the outbox. It runs on paho's goroutine for both the
// first connection and every reconnection.
func (p *RealPublisher) onConnect(c paho.Client) {
	for _, m := range p.connectMessages(time.Now()) {
		// Don't wait here: waiting on a token inside the handler deadlocks paho.
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// connectMessages drains the outbox and, on a reconnection only, appends a
// retained RECONNECTED. The first connection leaves the replayed STARTUP as
// the retained system message.
func (p *RealPublisher) connectMessages(now time.Time) []pending {
	p.mu.Lock()
	msgs, dropped := p.outbox.drain()
	p.connects++
	first := p.connects == 1
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages (%d dropped)", len(msgs), dropped)
	if first {
		return msgs
	}

	payload, err := FormatSystemPayload(SystemEvent{Timestamp: now, Event: "RECONNECTED"})
	if err != nil {
		log.Printf("mqtt: format reconnected event: %v", err)
		return msgs
	}
	return append(msgs, pending{topic: TopicSystem, payload: payload, qos: 1, retained: true})
}

func (p *RealPublisher) send(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.outbox.push(pending{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Publish sends a clock event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.send(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) for lifecycle events
	return p.send(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Buffered returns how many messages are waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outbox.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
