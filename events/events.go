// Package events publishes order lifecycle notifications for downstream
// consumers (push notifications, analytics).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"food-truck-api/models"
)

// Topics
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload of every order topic.
type OrderEvent struct {
	OrderID    string             `json:"order_id"`
	TruckID    string             `json:"truck_id"`
	CustomerID string             `json:"customer_id"`
	From       models.OrderStatus `json:"from,omitempty"`
	To         models.OrderStatus `json:"to"`
	Actor      string             `json:"actor"`
	TotalCost  float64            `json:"total_cost"`
	At         time.Time          `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event interface{}) error
	Stop()
}

// NSQPublisher handles publishing messages to NSQ topics
type NSQPublisher struct {
	producer *nsq.Producer
	log      *logrus.Logger
}

// NewNSQPublisher creates a producer for addr and pings the daemon.
func NewNSQPublisher(addr string, log *logrus.Logger) (*NSQPublisher, error) {
	producer, err := nsq.NewProducer(addr, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	producer.SetLogger(nsqLogger{log: log}, nsq.LogLevelWarning)
	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}
	return &NSQPublisher{producer: producer, log: log}, nil
}

func (p *NSQPublisher) Publish(_ context.Context, topic string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	p.log.WithField("topic", topic).Debug("event published")
	return nil
}

func (p *NSQPublisher) Stop() {
	p.producer.Stop()
}

// nsqLogger routes the producer's own log lines into logrus.
type nsqLogger struct {
	log *logrus.Logger
}

func (l nsqLogger) Output(_ int, s string) error {
	l.log.WithField("component", "nsq").Warn(s)
	return nil
}

// LogPublisher writes events to the log instead of a broker.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, event interface{}) error {
	p.log.WithFields(logrus.Fields{"topic": topic, "event": event}).Info("event")
	return nil
}

func (p *LogPublisher) Stop() {}
