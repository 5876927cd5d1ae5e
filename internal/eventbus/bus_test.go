package eventbus

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(logrus.WarnLevel)
	return log
}

func TestBus_Post_NoSubscribersWarns(t *testing.T) {
	var buf bytes.Buffer
	bus := New(newTestLogger(&buf))
	bus.Subscribe(TaskTypeDeleted, func(context.Context, Event) {
		t.Error("should not be called")
	})

	bus.Post(context.Background(), ClientDeleted, "c1")

	assert.Contains(t, buf.String(), "eventbus.Post: no matching subscribers")
}

func TestBus_Post_DeliversPayload(t *testing.T) {
	bus := New(newTestLogger(&bytes.Buffer{}))
	var got []Event
	bus.Subscribe(ClientDeleted, func(_ context.Context, e Event) {
		got = append(got, e)
	})
	bus.Subscribe("", func(_ context.Context, e Event) {
		got = append(got, e)
	})

	bus.Post(context.Background(), ClientDeleted, "c1")

	require.Len(t, got, 2)
	assert.Equal(t, ClientDeleted, got[0].Name)
	assert.Equal(t, "c1", got[0].Payload)
	assert.Equal(t, 2, bus.SubscribersCount(ClientDeleted))
	assert.Equal(t, 1, bus.SubscribersCount(TaskTypeDeleted))
}

func TestBus_Post_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	bus := New(newTestLogger(&buf))
	called := false
	bus.Subscribe(ClientDeleted, func(context.Context, Event) {
		panic("boom")
	})
	bus.Subscribe(ClientDeleted, func(context.Context, Event) {
		called = true
	})

	assert.NotPanics(t, func() {
		bus.Post(context.Background(), ClientDeleted, nil)
	})
	assert.True(t, called, "later handlers still run after a panic")
	assert.Contains(t, buf.String(), "handler panicked")
}

func TestBus_Subscribe_NilHandlerPanics(t *testing.T) {
	bus := New(nil)
	assert.Panics(t, func() { bus.Subscribe(ClientDeleted, nil) })
}
