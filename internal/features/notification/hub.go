package notification

import (
	"encoding/json"
	"sync"
)

// streamBuffer is the per-connection send queue depth. Pushes beyond it are
// dropped; the notification is already persisted.
const streamBuffer = 16

// Hub tracks live notification streams per user. Each websocket connection
// subscribes a buffered channel that a single writer goroutine drains, so a
// connection never sees more than one writer.
type Hub struct {
	mu      sync.RWMutex
	streams map[string][]chan []byte
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[string][]chan []byte),
	}
}

// Subscribe opens a new stream for the user and returns its send channel.
func (h *Hub) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, streamBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams[userID] = append(h.streams[userID], ch)
	return ch
}

// Unsubscribe removes the stream and closes its channel. The close happens
// under the write lock, and Push only sends under the read lock, so a send
// can never race the close.
func (h *Hub) Unsubscribe(userID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	streams := h.streams[userID]
	for i, c := range streams {
		if c == ch {
			h.streams[userID] = append(streams[:i], streams[i+1:]...)
			close(ch)
			break
		}
	}
	if len(h.streams[userID]) == 0 {
		delete(h.streams, userID)
	}
}

// Push serializes the notification and queues it on every open stream of the
// target user. A full queue drops the message rather than blocking the
// caller.
func (h *Hub) Push(notification *Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.streams[notification.UserID.Hex()] {
		select {
		case ch <- payload:
		default:
		}
	}
}
