// Package mqtt mirrors light and battery state to an MQTT broker and accepts
// light requests from it.
package mqtt

import (
	"fmt"
	"net/url"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/smazurov/lightnode/internal/logging"
)

const (
	connectTimeout = 10 * time.Second
	waitTimeout    = 5 * time.Second
)

// ClientAPI is the minimal broker surface the bridge needs. It lets tests
// run without a live broker.
type ClientAPI interface {
	Subscribe(topic string, cb Handler) error
	Unsubscribe(topic string) error
	PublishWith(topic string, payload []byte, retain bool) error
	Close()
}

// Message is re-exported type for handlers
type Message = paho.Message

// Handler is handler signature
type Handler = paho.MessageHandler

// ClientOptions configures Dial.
type ClientOptions struct {
	Broker   string // tcp://, mqtt://, ssl://, tls://, ws:// or wss:// URL, optionally with user:password
	ClientID string
	// WillTopic receives "offline" (retained) when the connection drops and
	// "online" on every connect.
	WillTopic string
}

// Client wraps a paho client with blocking calls.
type Client struct {
	cli    paho.Client
	opts   ClientOptions
	logger logging.Logger
}

// Dial connects to the broker. Reconnects after the first successful
// connect are handled by paho.
func Dial(opts ClientOptions, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.GetLogger("mqtt")
	}

	u, err := url.Parse(opts.Broker)
	if err != nil {
		return nil, fmt.Errorf("parse broker url: %w", err)
	}

	var server string
	switch u.Scheme {
	case "mqtt", "tcp":
		server = "tcp://" + u.Host
	case "ssl", "tls":
		server = "ssl://" + u.Host
	case "ws", "wss":
		server = u.Scheme + "://" + u.Host + u.Path
	default:
		return nil, fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}

	c := &Client{opts: opts, logger: logger}

	po := paho.NewClientOptions()
	po.AddBroker(server)
	po.SetClientID(opts.ClientID)
	po.SetConnectTimeout(connectTimeout)
	po.SetAutoReconnect(true)
	po.SetOrderMatters(false)
	if u.User != nil {
		pw, _ := u.User.Password()
		po.SetUsername(u.User.Username())
		po.SetPassword(pw)
	}
	if opts.WillTopic != "" {
		po.SetWill(opts.WillTopic, "offline", 1, true)
	}
	po.SetOnConnectHandler(func(cli paho.Client) {
		logger.Info("MQTT connected", "broker", server)
		if opts.WillTopic != "" {
			cli.Publish(opts.WillTopic, 1, true, "online")
		}
	})
	po.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("MQTT connection lost", "error", err)
	})

	c.cli = paho.NewClient(po)
	if err := wait(c.cli.Connect(), connectTimeout); err != nil {
		return nil, fmt.Errorf("connect %s: %w", server, err)
	}
	return c, nil
}

// Subscribe registers cb for topic at QoS 0.
func (c *Client) Subscribe(topic string, cb Handler) error {
	if err := wait(c.cli.Subscribe(topic, 0, cb), waitTimeout); err != nil {
		return err
	}
	c.logger.Info("MQTT subscribed", "topic", topic)
	return nil
}

// Unsubscribe removes the subscription for topic.
func (c *Client) Unsubscribe(topic string) error {
	if err := wait(c.cli.Unsubscribe(topic), waitTimeout); err != nil {
		return err
	}
	c.logger.Info("MQTT unsubscribed", "topic", topic)
	return nil
}

// PublishWith publishes payload at QoS 0.
func (c *Client) PublishWith(topic string, payload []byte, retain bool) error {
	return wait(c.cli.Publish(topic, 0, retain, payload), waitTimeout)
}

// Close announces "offline" and disconnects.
func (c *Client) Close() {
	if c.opts.WillTopic != "" {
		_ = wait(c.cli.Publish(c.opts.WillTopic, 1, true, "offline"), waitTimeout)
	}
	c.cli.Disconnect(250)
}

func wait(t paho.Token, timeout time.Duration) error {
	if !t.WaitTimeout(timeout) {
		return fmt.Errorf("timed out after %s", timeout)
	}
	return t.Error()
}
