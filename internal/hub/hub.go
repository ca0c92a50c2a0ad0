package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Client -> server message types.
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeChat        = "chat"
)

// Server -> client message type.
const TypeBroadcasted = "broadcasted"

// InboundMessage is what connected clients send over the wire.
type InboundMessage struct {
	Type    string `json:"type"`
	RoomID  uint   `json:"roomId"`
	Message string `json:"message"`
}

// OutboundMessage is the fan-out envelope delivered to every subscriber of a
// room, the sender included.
type OutboundMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	RoomID  uint   `json:"roomId"`
	UserID  uint   `json:"userId"`
}

// ChatPersister stores a chat message durably before it is broadcast.
type ChatPersister interface {
	PersistPayload(ctx context.Context, roomID, userID uint, message string) error
}

type eventKind int

const (
	eventRegister eventKind = iota
	eventUnregister
	eventInbound
	eventBroadcast
)

type hubEvent struct {
	kind    eventKind
	client  *Client
	data    []byte
	roomID  uint
	userID  uint
	message string
}

// Hub runs the room gateway. A single goroutine drains the events channel,
// so the registry is touched by exactly one goroutine and needs no lock.
// Persistence runs off-loop; completed persists re-enter the loop as
// broadcast events, which makes per-room delivery order the persistence
// completion order.
type Hub struct {
	events   chan hubEvent
	registry *Registry
	chats    ChatPersister
	stopOnce sync.Once
}

func NewHub(chats ChatPersister) *Hub {
	return &Hub{
		events:   make(chan hubEvent, 512),
		registry: NewRegistry(),
		chats:    chats,
	}
}

// Register hands a freshly authenticated client to the event loop.
func (h *Hub) Register(client *Client) {
	h.queue(hubEvent{kind: eventRegister, client: client})
}

// Stop closes the event channel; Run drains what is queued and returns.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.events)
	})
}

// Run drains events until Stop. Call it from a dedicated goroutine.
func (h *Hub) Run() {
	for ev := range h.events {
		switch ev.kind {
		case eventRegister:
			h.registry.Add(ev.client, ev.client.userID)
			logrus.WithFields(logrus.Fields{
				"user_id":     ev.client.userID,
				"connections": h.registry.Len(),
			}).Info("Client registered")
		case eventUnregister:
			if h.registry.Remove(ev.client) {
				close(ev.client.send)
				logrus.WithFields(logrus.Fields{
					"user_id":     ev.client.userID,
					"connections": h.registry.Len(),
				}).Info("Client unregistered")
			}
		case eventInbound:
			h.handleInbound(ev.client, ev.data)
		case eventBroadcast:
			h.fanOut(ev.roomID, ev.userID, ev.message)
		}
	}
}

func (h *Hub) queue(ev hubEvent) {
	defer func() {
		// Sending on the closed events channel after Stop is a drop,
		// not a crash.
		recover()
	}()
	select {
	case h.events <- ev:
	default:
		logrus.Warn("Hub event queue full, dropping event")
	}
}

func (h *Hub) queueUnregister(c *Client) {
	h.queue(hubEvent{kind: eventUnregister, client: c})
}

func (h *Hub) queueInbound(c *Client, data []byte) {
	h.queue(hubEvent{kind: eventInbound, client: c, data: data})
}

func (h *Hub) handleInbound(client *Client, data []byte) {
	entry := h.registry.Get(client)
	if entry == nil {
		return
	}
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"error":   err.Error(),
		}).Warn("Dropping malformed message")
		return
	}
	switch msg.Type {
	case TypeSubscribe:
		entry.Subscribe(msg.RoomID)
		logrus.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"room_id": msg.RoomID,
		}).Info("Subscribed to room")
	case TypeUnsubscribe:
		entry.Unsubscribe(msg.RoomID)
		logrus.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"room_id": msg.RoomID,
		}).Info("Unsubscribed from room")
	case TypeChat:
		// The sender's identity always comes from the authenticated
		// entry, never from the wire.
		go h.persistAndQueue(msg.RoomID, entry.UserID, msg.Message)
	default:
		logrus.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"type":    msg.Type,
		}).Warn("Dropping message of unknown type")
	}
}

// persistAndQueue stores the chat and, only on success, re-queues it for
// fan-out. Runs off the event loop so a slow database never stalls delivery
// of other rooms' traffic.
func (h *Hub) persistAndQueue(roomID, userID uint, message string) {
	if err := h.chats.PersistPayload(context.Background(), roomID, userID, message); err != nil {
		logrus.WithFields(logrus.Fields{
			"room_id": roomID,
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to persist chat, dropping")
		return
	}
	h.queue(hubEvent{kind: eventBroadcast, roomID: roomID, userID: userID, message: message})
}

func (h *Hub) fanOut(roomID, userID uint, message string) {
	out := OutboundMessage{
		Type:    TypeBroadcasted,
		Message: message,
		RoomID:  roomID,
		UserID:  userID,
	}
	data, err := json.Marshal(out)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Failed to marshal broadcast")
		return
	}
	delivered := 0
	h.registry.ForEach(func(entry *Entry) {
		if !entry.Subscribed(roomID) {
			return
		}
		select {
		case entry.Client.send <- data:
			delivered++
		default:
			logrus.WithFields(logrus.Fields{
				"user_id": entry.UserID,
				"room_id": roomID,
			}).Warn("Send buffer full, skipping client")
		}
	})
	logrus.WithFields(logrus.Fields{
		"room_id":   roomID,
		"delivered": delivered,
	}).Debug("Broadcast delivered")
}
