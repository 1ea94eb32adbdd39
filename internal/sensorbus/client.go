package sensorbus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/domain/care"
	"github.com/avillegas/care-assistant/internal/logger"
)

const (
	// maxConnectAttempts bounds the connection retry budget.
	maxConnectAttempts = 10
	// defaultRetryDelay is the fixed pause between connection attempts.
	defaultRetryDelay = 3 * time.Second
	// connectTimeout bounds a single connection attempt.
	connectTimeout = 5 * time.Second
	// lightsQoS is the quality-of-service level for lights publications.
	lightsQoS = 1
)

// ErrNotConnected is returned by operations requiring a live broker
// connection. Callers must treat it as a steady-state condition: the bus
// being down degrades features, it never crashes the process.
var ErrNotConnected = errors.New("sensor bus is not connected")

// errConfirmationTimeout indicates the broker never confirmed an operation
// within the wait bound.
var errConfirmationTimeout = errors.New("broker confirmation timed out")

// Client maintains the connection to the sensor bus, normalizes incoming
// sensor messages into the shared state and publishes actuator commands.
// Message callbacks run on the bus library's own delivery goroutine.
type Client struct {
	cfg   config.BrokerConfig
	state *care.State

	// newClient builds the underlying MQTT client; replaced in tests.
	newClient func(*mqtt.ClientOptions) mqtt.Client
	// retryDelay is the pause between connection attempts; shortened in tests.
	retryDelay time.Duration

	mu        sync.RWMutex
	client    mqtt.Client
	connected bool
}

// NewClient builds a bus client that writes sensor signals into state.
func NewClient(cfg config.BrokerConfig, state *care.State) *Client {
	return &Client{
		cfg:        cfg,
		state:      state,
		newClient:  mqtt.NewClient,
		retryDelay: defaultRetryDelay,
	}
}

// Connect dials the broker with a bounded retry budget: up to ten attempts,
// three seconds apart. Exhausting the budget is logged and reported as
// ErrNotConnected; it is not fatal to the rest of the process.
func (c *Client) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", c.cfg.Address, c.cfg.Port))
	opts.SetClientID("care-assistant")
	opts.SetKeepAlive(60 * time.Second)
	opts.SetAutoReconnect(true)

	opts.OnConnect = func(client mqtt.Client) {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()

		c.subscribe(ctx, client)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		logger.WarnKV(ctx, "Sensor bus connection lost, waiting for automatic reconnect", "error", err)
	}

	client := c.newClient(opts)

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		logger.InfoKV(ctx, "Connecting to sensor bus",
			"address", c.cfg.Address, "port", c.cfg.Port,
			"attempt", attempt, "max_attempts", maxConnectAttempts)

		token := client.Connect()
		if token.WaitTimeout(connectTimeout) && token.Error() == nil {
			c.mu.Lock()
			c.connected = true
			c.mu.Unlock()

			logger.Info(ctx, "Sensor bus connected")

			return nil
		}

		logger.WarnKV(ctx, "Sensor bus connection attempt failed", "attempt", attempt, "error", token.Error())

		if attempt == maxConnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	logger.Error(ctx, "Sensor bus connection retry budget exhausted, continuing without bus")

	return ErrNotConnected
}

// subscribe registers the sensor topics. Runs on every (re)connect.
func (c *Client) subscribe(ctx context.Context, client mqtt.Client) {
	subscriptions := map[string]mqtt.MessageHandler{
		c.cfg.TemperatureTopic: func(_ mqtt.Client, msg mqtt.Message) {
			c.HandleTemperature(ctx, msg.Payload())
		},
		c.cfg.FallTopic: func(_ mqtt.Client, msg mqtt.Message) {
			c.HandleFall(ctx, msg.Payload())
		},
	}

	for topic, handler := range subscriptions {
		token := client.Subscribe(topic, 0, handler)
		if !token.WaitTimeout(connectTimeout) {
			logger.ErrorKV(ctx, "Subscription confirmation timed out", "topic", topic)

			continue
		}

		if err := token.Error(); err != nil {
			logger.ErrorKV(ctx, "Subscription failed", "topic", topic, "error", err)

			continue
		}

		logger.InfoKV(ctx, "Subscribed to sensor topic", "topic", topic)
	}
}

// HandleTemperature parses a temperature payload and records the sample.
// A malformed payload is dropped and logged; it never tears the connection.
func (c *Client) HandleTemperature(ctx context.Context, payload []byte) {
	text := strings.TrimSpace(string(payload))

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		logger.WarnKV(ctx, "Dropping malformed temperature payload", "payload", text)

		return
	}

	c.state.RecordTemperature(value)
	logger.DebugKV(ctx, "Temperature sample recorded", "value", value)
}

// HandleFall signals a detected fall. The payload is logged but the mere
// presence of a message is the signal; content is not validated.
func (c *Client) HandleFall(ctx context.Context, payload []byte) {
	c.state.SignalFall()
	logger.WarnKV(ctx, "Fall detection message received", "payload", string(payload))
}

// Connected reports whether the bus connection is currently live.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.connected
}

// PublishLights publishes the lights state ("ON"/"OFF") at QoS 1.
// Best effort: when not connected it reports failure to the caller without
// blocking or queuing.
func (c *Client) PublishLights(ctx context.Context, state string) error {
	c.mu.RLock()
	client, connected := c.client, c.connected
	c.mu.RUnlock()

	if client == nil || !connected {
		return ErrNotConnected
	}

	token := client.Publish(c.cfg.LightsTopic, lightsQoS, false, state)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("publish lights state: %w", errConfirmationTimeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish lights state: %w", err)
	}

	logger.InfoKV(ctx, "Lights state published", "topic", c.cfg.LightsTopic, "state", state)

	return nil
}

// Disconnect closes the broker connection if one is open.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.connected {
		c.client.Disconnect(250)
		c.connected = false
	}
}
