// Package broker wraps the MQTT client used for device traffic: wildcard
// topic subscriptions under helmet/<id>/... and QoS 1 publish helpers.
package broker

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wihwin/helmet-core/internal/config"
)

const (
	connectRetryAttempts = 30
	connectRetryDelay    = 5 * time.Second
)

// Message is one inbound broker message, routed by topic and device code.
type Message struct {
	DeviceCode string
	Topic      string
	Payload    []byte
}

// Client wraps a paho MQTT client, pushing every inbound message onto a
// single channel so the Stream Processor's event loop remains the sole
// reader/writer of per-device state.
type Client struct {
	mqtt    mqtt.Client
	Inbound chan Message
}

// Connect dials the broker with a bounded retry loop (30 attempts x 5s,
// per the spec's connect-failure discipline), on top of the paho client's
// own AutoReconnect for post-connect drops.
func Connect(cfg config.BrokerConfig) (*Client, error) {
	inbound := make(chan Message, 1024)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.User).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)

	var lastErr error
	for attempt := 1; attempt <= connectRetryAttempts; attempt++ {
		token := client.Connect()
		if token.Wait() && token.Error() == nil {
			log.Printf("[broker] connected to %s", cfg.URL)
			return &Client{mqtt: client, Inbound: inbound}, nil
		}
		lastErr = token.Error()
		log.Printf("[broker] connect attempt %d/%d failed: %v", attempt, connectRetryAttempts, lastErr)
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("broker: exhausted %d connect attempts: %w", connectRetryAttempts, lastErr)
}

// SubscribeDeviceTopics subscribes to the three wildcard topics the Stream
// Processor consumes, routing every message onto c.Inbound.
func (c *Client) SubscribeDeviceTopics() error {
	for _, suffix := range []string{"telemetry", "baseline", "accel"} {
		topic := "helmet/+/" + suffix
		suffix := suffix
		token := c.mqtt.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			deviceCode := deviceCodeFromTopic(msg.Topic())
			c.Inbound <- Message{DeviceCode: deviceCode, Topic: suffix, Payload: msg.Payload()}
		})
		if token.Wait() && token.Error() != nil {
			return fmt.Errorf("broker: subscribe %s: %w", topic, token.Error())
		}
	}
	return nil
}

// PublishLiveAnalysis publishes a live-analysis message for a device at QoS 1.
func (c *Client) PublishLiveAnalysis(deviceCode string, payload []byte) error {
	return c.publish(deviceCode, "live-analysis", payload)
}

// PublishCommand publishes a command message for a device at QoS 1.
func (c *Client) PublishCommand(deviceCode string, payload []byte) error {
	return c.publish(deviceCode, "command", payload)
}

// PublishCrash publishes a crash message for a device at QoS 1.
func (c *Client) PublishCrash(deviceCode string, payload []byte) error {
	return c.publish(deviceCode, "crash", payload)
}

func (c *Client) publish(deviceCode, suffix string, payload []byte) error {
	topic := fmt.Sprintf("helmet/%s/%s", deviceCode, suffix)
	token := c.mqtt.Publish(topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("broker: publish %s: %w", topic, token.Error())
	}
	return nil
}

// Disconnect closes the broker connection, waiting up to quiesce for
// in-flight publishes to drain.
func (c *Client) Disconnect(quiesceMS uint) {
	c.mqtt.Disconnect(quiesceMS)
}

// deviceCodeFromTopic extracts <id> from a helmet/<id>/<suffix> topic.
func deviceCodeFromTopic(topic string) string {
	start := len("helmet/")
	if start >= len(topic) {
		return ""
	}
	rest := topic[start:]
	for i, r := range rest {
		if r == '/' {
			return rest[:i]
		}
	}
	return rest
}
