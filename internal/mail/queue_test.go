package mail

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestQueueSender_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	s := &QueueSender{open: func() (amqpChannel, error) { return ch, nil }, queueName: "inkwell.mail"}

	msg := Message{ID: "id-1", Template: TemplateForgot, To: "a@b.c", Subject: "s", Body: "b"}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, []string{"inkwell.mail"}, ch.declared)
	assert.Equal(t, []string{"inkwell.mail"}, ch.keys)
	require.Len(t, ch.published, 1)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, "id-1", ch.published[0].MessageId)
	assert.True(t, ch.closed)

	var decoded Message
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, msg, decoded)
}

func TestQueueSender_ChannelError(t *testing.T) {
	s := &QueueSender{open: func() (amqpChannel, error) { return nil, errors.New("closed") }, queueName: "q"}
	assert.Error(t, s.Send(context.Background(), Message{}))
}

type fakeAcknowledger struct {
	acked, nacked, requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	return nil
}

func TestWorkerHandle(t *testing.T) {
	body, err := json.Marshal(Message{ID: "m", To: "a@b.c", Subject: "s", Body: "b"})
	require.NoError(t, err)

	t.Run("delivered message is acked", func(t *testing.T) {
		sender := &recordingSender{}
		w := NewWorker(nil, sender, "q")
		ack := &fakeAcknowledger{}

		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body})

		assert.True(t, ack.acked)
		require.Len(t, sender.messages, 1)
		assert.Equal(t, "a@b.c", sender.messages[0].To)
	})

	t.Run("failed delivery is dropped", func(t *testing.T) {
		w := NewWorker(nil, &recordingSender{err: errors.New("down")}, "q")
		ack := &fakeAcknowledger{}

		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: body})

		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
		assert.False(t, ack.acked)
	})

	t.Run("garbage is dropped", func(t *testing.T) {
		sender := &recordingSender{}
		w := NewWorker(nil, sender, "q")
		ack := &fakeAcknowledger{}

		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("{")})

		assert.True(t, ack.nacked)
		assert.Empty(t, sender.messages)
	})
}
