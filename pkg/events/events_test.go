package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventPopulatesIdentity(t *testing.T) {
	before := time.Now()
	e := NewEvent(EventTypeArtifactStart, "starting", map[string]any{"artifact_id": "a"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventTypeArtifactStart, e.Type)
	assert.Equal(t, "starting", e.Message)
	assert.False(t, e.Timestamp.Before(before))

	other := NewEvent(EventTypeArtifactStart, "starting", nil)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestEventBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe("a")
	b := bus.Subscribe("b")

	bus.Publish(NewEvent(EventTypeValidationStart, "go", nil))

	eventA := <-a
	eventB := <-b
	assert.Equal(t, EventTypeValidationStart, eventA.Type)
	assert.Equal(t, eventA.ID, eventB.ID)
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe("slow") // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			bus.Publish(NewEvent(EventTypeRetryAttempt, "again", nil))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber channel")
	}
}

func TestEventBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("gone")
	bus.Unsubscribe("gone")

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(NewEvent(EventTypeError, "late", nil))
}

func TestBusSinkForwards(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("sink")

	sink := BusSink{Bus: bus}
	sink.Send(NewEvent(EventTypeFixSuccess, "fixed", nil))

	select {
	case e := <-ch:
		assert.Equal(t, EventTypeFixSuccess, e.Type)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded to bus subscriber")
	}
}

func TestPayloadConstructors(t *testing.T) {
	e := CompilationFailureEvent("card", 2, 3, 4)
	require.NotNil(t, e.Data)
	assert.Equal(t, "card", e.Data["artifact_id"])
	assert.Equal(t, 2, e.Data["attempt"])
	assert.Equal(t, 3, e.Data["max_attempts"])
	assert.Equal(t, 4, e.Data["error_count"])

	e = FixFailureEvent("card", 3, true)
	assert.Contains(t, e.Message, "no attempts remaining")
	assert.Equal(t, true, e.Data["final"])

	e = FixSuccessEvent("card", 1, "")
	_, hasDiff := e.Data["diff"]
	assert.False(t, hasDiff, "empty diffs are omitted from the payload")

	e = ValidationCompleteEvent(5, 4, 1)
	assert.Equal(t, 5, e.Data["validated"])
	assert.Equal(t, 4, e.Data["succeeded"])
	assert.Equal(t, 1, e.Data["failed"])
}
