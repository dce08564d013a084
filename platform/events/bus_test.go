package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"orcamento_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	Value int
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishSyncDeliversToAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var got []int
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, e Event) error {
			got = append(got, e.(testEvent).Value)
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Value: 7}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("delivered to %d handlers, want 3", len(got))
	}
}

func TestPublishSyncReturnsFirstError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	want := errors.New("handler failed")

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error { return want }))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestPublishIsAsynchronous(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		close(done)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestPublishUnknownEventIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("PublishSync with no handlers: %v", err)
	}
}
