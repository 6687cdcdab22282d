package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToCoreDelivers(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	require.NoError(t, eb.SendToCore(SendMessageEvent{Message: "hi"}))

	select {
	case event := <-eb.UIToCore():
		msg, ok := event.(SendMessageEvent)
		require.True(t, ok)
		assert.Equal(t, "hi", msg.Message)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestSendToUIFullChannelErrors(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, eb.SendToUI(StatusUpdateEvent{Text: "x"}))
	}
	assert.Error(t, eb.SendToUI(StatusUpdateEvent{Text: "overflow"}))
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}

// UI and core push through the bus from separate goroutines; the breaker
// must stay consistent under that interleaving (run with -race).
func TestConcurrentSendsFromBothSides(t *testing.T) {
	eb := NewEventBus()
	defer eb.Close()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-eb.UIToCore():
			case <-eb.CoreToUI():
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = eb.SendToCore(SendMessageEvent{Message: "ping"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = eb.SendToUI(StatusUpdateEvent{Text: "pong"})
		}
	}()
	wg.Wait()
	close(done)

	eb.circuitBreaker.RecordSuccess()
	assert.False(t, eb.circuitBreaker.IsOpen())
}

func TestCircuitBreakerHalfOpensAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Millisecond)
	cb.RecordFailure()
	require.True(t, cb.IsOpen())

	time.Sleep(5 * time.Millisecond)
	assert.False(t, cb.IsOpen())
}
