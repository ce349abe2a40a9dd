package media

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSink publishes every event to a broker topic as JSON, QoS 0. Errors
// are swallowed; the game never blocks on a slow or unreachable broker.
type MQTTSink struct {
	client paho.Client
	topic  string
}

// NewMQTTSink connects to broker and returns a sink publishing to topic.
func NewMQTTSink(broker, clientID, topic string) (*MQTTSink, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &MQTTSink{client: client, topic: topic}, nil
}

// Post implements Sink, publishing under topic/<event type> so a broker
// subscriber can filter the tree (e.g. "pinhall/events/ball_ended", or
// "pinhall/events/+" for every event type).
// Publish failures are dropped, not retried inline.
func (s *MQTTSink) Post(event Event) {
	data, err := json.Marshal(wireEvent{Type: event.Type, Payload: event.Payload})
	if err != nil {
		return
	}
	s.client.Publish(fmt.Sprintf("%s/%s", s.topic, event.Type), 0, false, data)
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() error {
	s.client.Disconnect(1000)
	return nil
}

var _ Sink = (*MQTTSink)(nil)
