// Package events publishes change notifications for fleet logs to an MQTT
// broker so site dashboards can refresh without polling.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Event types.
const (
	RefuelingCreated = "refueling.created"
	RefuelingUpdated = "refueling.updated"
	RefuelingDeleted = "refueling.deleted"
	UsageCreated     = "usage.created"
	UsageUpdated     = "usage.updated"
	UsageDeleted     = "usage.deleted"
	VehicleCreated   = "vehicle.created"
	VehicleUpdated   = "vehicle.updated"
	VehicleDeleted   = "vehicle.deleted"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Event is the JSON payload of a change notification.
type Event struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	VehicleID  string      `json:"vehicle_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close()                               {}

// client is the part of mqtt.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher sends events with QoS 1 to <topic>/<vehicle_id>/<type>.
type MQTTPublisher struct {
	client  client
	topic   string
	timeout time.Duration

	// Observe, when set, is called after every publish attempt.
	Observe func(eventType string, err error)
}

// MQTTOptions configures NewMQTTPublisher.
type MQTTOptions struct {
	Broker   string
	ClientID string
	Topic    string
	Timeout  time.Duration
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(opts MQTTOptions) (*MQTTPublisher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(opts.Timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})

	c := mqtt.NewClient(clientOpts)
	token := c.Connect()
	if !token.WaitTimeout(opts.Timeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", opts.Broker, err)
	}
	return newMQTTPublisher(c, opts.Topic, opts.Timeout), nil
}

func newMQTTPublisher(c client, topic string, timeout time.Duration) *MQTTPublisher {
	return &MQTTPublisher{client: c, topic: topic, timeout: timeout}
}

// Topic returns the topic an event is published on.
func (p *MQTTPublisher) Topic(e Event) string {
	return fmt.Sprintf("%s/%s/%s", p.topic, e.VehicleID, e.Type)
}

// Publish blocks until the broker acknowledges e, the publisher timeout
// elapses or ctx is done.
func (p *MQTTPublisher) Publish(ctx context.Context, e Event) (err error) {
	defer func() {
		if p.Observe != nil {
			p.Observe(e.Type, err)
		}
	}()

	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", e.Type, err)
	}

	token := p.client.Publish(p.Topic(e), 1, false, payload)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects after giving in-flight messages a moment to finish.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Notify publishes e in the background and only logs failures, so request
// handlers are never slowed down or failed by the broker.
func Notify(p Publisher, e Event) {
	if p == nil {
		return
	}
	if _, nop := p.(NopPublisher); nop {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, e); err != nil {
			log.WithError(err).WithFields(log.Fields{"type": e.Type, "id": e.ID}).Warn("failed to publish change event")
		}
	}()
}
