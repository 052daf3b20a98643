package events_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/engine/events"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := events.NewBus()

	var calls []string
	bus.Subscribe(domain.EventExit, func(ev domain.Event) { calls = append(calls, "first") })
	bus.Subscribe(domain.EventExit, func(ev domain.Event) { calls = append(calls, "second") })
	bus.Subscribe(domain.EventStdout, func(ev domain.Event) { calls = append(calls, "stdout") })

	bus.Publish(domain.Event{Name: domain.EventExit, ExitCode: 2})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_PublishWithoutListeners(t *testing.T) {
	bus := events.NewBus()
	bus.Subscribe(domain.EventStdout, nil)
	assert.NotPanics(t, func() {
		bus.Publish(domain.Event{Name: domain.EventStdout, Chunk: []byte("x")})
	})
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	bus := events.NewBus()

	late := 0
	bus.Subscribe(domain.EventStderr, func(domain.Event) {
		bus.Subscribe(domain.EventStderr, func(domain.Event) { late++ })
	})

	bus.Publish(domain.Event{Name: domain.EventStderr})
	assert.Equal(t, 0, late)
	bus.Publish(domain.Event{Name: domain.EventStderr})
	assert.Equal(t, 1, late)
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewBus()
	bus.Subscribe(domain.EventStdout, events.WriteTo(&buf))

	bus.Publish(domain.Event{Name: domain.EventStdout, Chunk: []byte("hello ")})
	bus.Publish(domain.Event{Name: domain.EventStdout, Chunk: []byte("world\n")})
	assert.Equal(t, "hello world\n", buf.String())
}
