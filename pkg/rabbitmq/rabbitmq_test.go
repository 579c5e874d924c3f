package rabbitmq

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// recorder captures how a delivery was settled.
type recorder struct {
	acked, nacked, rejected, requeued bool
}

func (r *recorder) Ack(uint64, bool) error {
	r.acked = true
	return nil
}

func (r *recorder) Nack(_ uint64, _ bool, requeue bool) error {
	r.nacked = true
	r.requeued = requeue
	return nil
}

func (r *recorder) Reject(_ uint64, requeue bool) error {
	r.rejected = true
	r.requeued = requeue
	return nil
}

func delivery(t *testing.T, r *recorder, postID string) amqp.Delivery {
	t.Helper()
	body, err := EncodePostPurge(postID)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: r, DeliveryTag: 1, Body: body}
}

func TestEncodeDecodePostPurge(t *testing.T) {
	body, err := EncodePostPurge("p1")
	require.NoError(t, err)

	purge, err := DecodePostPurge(body)
	require.NoError(t, err)
	assert.Equal(t, "p1", purge.PostID)
	assert.False(t, purge.QueuedAt.IsZero())

	_, err = EncodePostPurge("")
	assert.Error(t, err)
	_, err = DecodePostPurge([]byte(`{}`))
	assert.Error(t, err)
	_, err = DecodePostPurge([]byte(`not json`))
	assert.Error(t, err)
}

func TestProcess_AcksOnSuccess(t *testing.T) {
	r := &recorder{}
	var got string
	process(delivery(t, r, "p1"), func(postID string) error {
		got = postID
		return nil
	}, 0)

	assert.Equal(t, "p1", got)
	assert.True(t, r.acked)
	assert.False(t, r.nacked)
}

func TestProcess_RequeuesOnFailure(t *testing.T) {
	r := &recorder{}
	process(delivery(t, r, "p1"), func(string) error {
		return errors.New("database unavailable")
	}, 0)

	assert.True(t, r.nacked)
	assert.True(t, r.requeued)
	assert.False(t, r.acked)
}

func TestProcess_DropsMalformed(t *testing.T) {
	r := &recorder{}
	called := false
	process(amqp.Delivery{Acknowledger: r, Body: []byte("garbage")}, func(string) error {
		called = true
		return nil
	}, 0)

	assert.False(t, called)
	assert.True(t, r.rejected)
	assert.False(t, r.requeued)
}
