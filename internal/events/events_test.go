package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	return m.Called(topic, qos, retained, payload).Get(0).(mqtt.Token)
}

func (m *mockClient) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func TestMQTTPublisher_Publish(t *testing.T) {
	c := new(mockClient)
	p := newMQTTPublisher(c, "sitefleet/events", time.Second)

	var observed []string
	p.Observe = func(eventType string, err error) {
		assert.NoError(t, err)
		observed = append(observed, eventType)
	}

	var payload []byte
	c.On("Publish", "sitefleet/events/veh-1/refueling.created", byte(1), false, mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(3).([]byte) }).
		Return(completedToken(nil))

	err := p.Publish(context.Background(), Event{Type: RefuelingCreated, ID: "r1", VehicleID: "veh-1"})
	require.NoError(t, err)
	c.AssertExpectations(t)
	assert.Equal(t, []string{RefuelingCreated}, observed)

	var decoded Event
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "r1", decoded.ID)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestMQTTPublisher_Errors(t *testing.T) {
	t.Run("broker error", func(t *testing.T) {
		c := new(mockClient)
		p := newMQTTPublisher(c, "t", time.Second)
		c.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(completedToken(errors.New("not authorized")))

		var observedErr error
		p.Observe = func(_ string, err error) { observedErr = err }

		err := p.Publish(context.Background(), Event{Type: UsageDeleted})
		assert.EqualError(t, err, "not authorized")
		assert.Equal(t, err, observedErr)
	})

	t.Run("timeout", func(t *testing.T) {
		c := new(mockClient)
		p := newMQTTPublisher(c, "t", 10*time.Millisecond)
		c.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{done: make(chan struct{})})

		assert.ErrorIs(t, p.Publish(context.Background(), Event{Type: UsageCreated}), ErrPublishTimeout)
	})

	t.Run("context cancelled", func(t *testing.T) {
		c := new(mockClient)
		p := newMQTTPublisher(c, "t", time.Minute)
		c.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&fakeToken{done: make(chan struct{})})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, p.Publish(ctx, Event{Type: UsageCreated}), context.Canceled)
	})
}

func TestMQTTPublisher_Close(t *testing.T) {
	c := new(mockClient)
	c.On("Disconnect", uint(250)).Return()
	newMQTTPublisher(c, "t", time.Second).Close()
	c.AssertExpectations(t)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	wg     sync.WaitGroup
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) error {
	defer r.wg.Done()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() {}

func TestNotify(t *testing.T) {
	rec := &recordingPublisher{}
	rec.wg.Add(1)
	Notify(rec, Event{Type: VehicleCreated, ID: "v1"})
	rec.wg.Wait()
	assert.Len(t, rec.events, 1)

	assert.NotPanics(t, func() {
		Notify(nil, Event{})
		Notify(NopPublisher{}, Event{})
	})
}
