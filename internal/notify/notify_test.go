package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeSender struct {
	sent []sentMail
}

func (s *fakeSender) Send(to []string, subject, body string) error {
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestKafkaNotifier_PublishesKeyedEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	err := n.Notify(context.Background(), Event{Type: EventOrderPlaced, OrderID: 42, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, EventOrderPlaced, got.Type)
	assert.EqualValues(t, 3, got.Quantity)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	t.Parallel()

	n := &KafkaNotifier{writer: &fakeWriter{err: errors.New("broker down")}}
	err := n.Notify(context.Background(), Event{Type: EventOrderPlaced, OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestDispatcher_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		admins  []string
		ev      Event
		wantTo  []string
		wantErr error
		inBody  string
	}{
		{
			name:   "order placed goes to admins",
			admins: []string{"ops@dairy.test", "owner@dairy.test"},
			ev:     Event{Type: EventOrderPlaced, OrderID: 7, ProductTitle: "Paneer", Quantity: 2, CustomerName: "Asha"},
			wantTo: []string{"ops@dairy.test", "owner@dairy.test"},
			inBody: "Paneer",
		},
		{
			name:    "order placed without admins",
			ev:      Event{Type: EventOrderPlaced, OrderID: 7},
			wantErr: ErrNoRecipients,
		},
		{
			name:   "delivery assigned goes to courier",
			admins: []string{"ops@dairy.test"},
			ev:     Event{Type: EventDeliveryAssigned, OrderID: 9, DeliveryName: "Vikram", DeliveryEmail: "vikram@dairy.test"},
			wantTo: []string{"vikram@dairy.test"},
			inBody: "Hello Vikram",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &fakeSender{}
			d := &Dispatcher{Sender: s, AdminEmails: tt.admins}
			err := d.Dispatch(tt.ev)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, s.sent)
				return
			}
			require.NoError(t, err)
			require.Len(t, s.sent, 1)
			assert.Equal(t, tt.wantTo, s.sent[0].to)
			assert.Contains(t, s.sent[0].body, tt.inBody)
		})
	}
}

func TestConsumer_HandleSkipsGarbage(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := &fakeSender{}
	c := &Consumer{
		dispatcher: &Dispatcher{Sender: s, AdminEmails: []string{"ops@dairy.test"}},
		log:        slog.New(slog.NewJSONHandler(&logs, nil)),
	}

	c.handle([]byte("not json"))
	assert.Empty(t, s.sent)
	assert.Contains(t, logs.String(), "unmarshal_event_error")

	raw, err := json.Marshal(Event{Type: EventOrderPlaced, OrderID: 5})
	require.NoError(t, err)
	c.handle(raw)
	assert.Len(t, s.sent, 1)
	assert.Contains(t, logs.String(), "mail_sent")
}
