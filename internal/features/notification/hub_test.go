package notification

import (
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testNotification(userID primitive.ObjectID) *Notification {
	return &Notification{
		ID:      primitive.NewObjectID(),
		UserID:  userID,
		Title:   "Ticket escalated",
		Message: "Rule fired",
		Type:    NotificationTypeEscalation,
	}
}

func TestHubPushFansOutToAllStreams(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()

	first := hub.Subscribe(userID.Hex())
	second := hub.Subscribe(userID.Hex())
	defer hub.Unsubscribe(userID.Hex(), first)
	defer hub.Unsubscribe(userID.Hex(), second)

	hub.Push(testNotification(userID))

	for i, ch := range []chan []byte{first, second} {
		select {
		case payload := <-ch:
			if len(payload) == 0 {
				t.Errorf("stream %d got empty payload", i)
			}
		default:
			t.Errorf("stream %d got no message", i)
		}
	}
}

func TestHubPushIgnoresOtherUsers(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()

	ch := hub.Subscribe(userID.Hex())
	defer hub.Unsubscribe(userID.Hex(), ch)

	hub.Push(testNotification(primitive.NewObjectID()))

	select {
	case <-ch:
		t.Error("stream received a notification for a different user")
	default:
	}
}

func TestHubConcurrentPushSingleDrainer(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()
	ch := hub.Subscribe(userID.Hex())

	// one drainer per stream, like the websocket handler's writer goroutine
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
			received++
		}
	}()

	const pushers = 8
	const perPusher = 50
	var wg sync.WaitGroup
	for i := 0; i < pushers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPusher; j++ {
				hub.Push(testNotification(userID))
			}
		}()
	}
	wg.Wait()

	hub.Unsubscribe(userID.Hex(), ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drainer did not exit after unsubscribe")
	}

	if received == 0 {
		t.Error("drainer received no notifications")
	}
	if received > pushers*perPusher {
		t.Errorf("received %d notifications, pushed only %d", received, pushers*perPusher)
	}
}

func TestHubSlowStreamDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()
	ch := hub.Subscribe(userID.Hex())
	defer hub.Unsubscribe(userID.Hex(), ch)

	// nothing drains the stream; pushes beyond the buffer must not block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < streamBuffer*3; i++ {
			hub.Push(testNotification(userID))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full stream")
	}
	if got := len(ch); got != streamBuffer {
		t.Errorf("buffered %d messages, want %d", got, streamBuffer)
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	userID := primitive.NewObjectID()

	ch := hub.Subscribe(userID.Hex())
	hub.Unsubscribe(userID.Hex(), ch)

	// channel is closed and removed; Push must not panic or deliver
	hub.Push(testNotification(userID))

	if _, ok := <-ch; ok {
		t.Error("closed stream still delivered a message")
	}
}
