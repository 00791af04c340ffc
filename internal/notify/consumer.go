package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrNoRecipients = errors.New("no recipients")

// Dispatcher turns events into mail.
type Dispatcher struct {
	Sender      Sender
	AdminEmails []string
	Log         *slog.Logger
}

func (d *Dispatcher) Dispatch(ev Event) error {
	var (
		to      []string
		subject string
		tmpl    = orderPlacedTmpl
	)

	switch ev.Type {
	case EventOrderPlaced:
		to = d.AdminEmails
		subject = fmt.Sprintf("New order #%d", ev.OrderID)
	case EventDeliveryAssigned:
		if ev.DeliveryEmail != "" {
			to = []string{ev.DeliveryEmail}
		}
		subject = fmt.Sprintf("Delivery assigned: order #%d", ev.OrderID)
		tmpl = deliveryAssignedTmpl
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	if len(to) == 0 {
		return fmt.Errorf("%w for %s", ErrNoRecipients, ev.Type)
	}

	body, err := render(tmpl, ev)
	if err != nil {
		return fmt.Errorf("render %s: %w", ev.Type, err)
	}
	return d.Sender.Send(to, subject, body)
}

type Consumer struct {
	reader     *kafka.Reader
	dispatcher *Dispatcher
	log        *slog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, d *Dispatcher, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          1,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &Consumer{reader: r, dispatcher: d, log: log}
}

// Run reads until ctx is cancelled. Bad messages are logged and skipped.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("notifier_consumer_started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("read_message_error", "error", err)
			continue
		}
		c.handle(m.Value)
	}
}

func (c *Consumer) handle(value []byte) {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		c.log.Error("unmarshal_event_error", "value", string(value), "error", err)
		return
	}

	l := c.log.With("type", ev.Type, "order_id", ev.OrderID)
	if err := c.dispatcher.Dispatch(ev); err != nil {
		if errors.Is(err, ErrNoRecipients) {
			l.Warn("mail_skipped", "reason", "no recipients")
			return
		}
		l.Error("mail_error", "error", err)
		return
	}
	l.Info("mail_sent")
}

func (c *Consumer) Close() error { return c.reader.Close() }
