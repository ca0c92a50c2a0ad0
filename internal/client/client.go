// Package client is the Go-side board client: it dials the real-time
// endpoint, manages room subscriptions and carries payloads both ways.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/hub"
)

// BroadcastFunc receives every broadcasted message after Run starts.
type BroadcastFunc func(hub.OutboundMessage)

// Client is one authenticated connection to the board server.
type Client struct {
	conn        *websocket.Conn
	writeMu     sync.Mutex
	onBroadcast BroadcastFunc
	done        chan struct{}
}

// Dial connects to the real-time endpoint, passing the token as a query
// parameter. wsURL is the bare endpoint, e.g. "ws://host:8080/ws".
func Dial(ctx context.Context, wsURL, token string) (*Client, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial: %w", err)
	}
	return &Client{
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// OnBroadcast registers the broadcast callback. Call it before Run.
func (c *Client) OnBroadcast(fn BroadcastFunc) {
	c.onBroadcast = fn
}

// Run reads frames until the connection closes, dispatching broadcasted
// messages to the registered callback. It blocks; run it in a goroutine.
func (c *Client) Run() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithField("error", err.Error()).Warn("Board connection closed")
			}
			return
		}
		var msg hub.OutboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logrus.WithField("error", err.Error()).Warn("Skipping malformed server frame")
			continue
		}
		if msg.Type == hub.TypeBroadcasted && c.onBroadcast != nil {
			c.onBroadcast(msg)
		}
	}
}

// Done is closed once the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Subscribe adds the room to this connection's subscription set.
func (c *Client) Subscribe(roomID uint) error {
	return c.send(hub.InboundMessage{Type: hub.TypeSubscribe, RoomID: roomID})
}

// Unsubscribe removes the room from the subscription set.
func (c *Client) Unsubscribe(roomID uint) error {
	return c.send(hub.InboundMessage{Type: hub.TypeUnsubscribe, RoomID: roomID})
}

// SendPayload serializes the payload and emits it as a chat message for the
// room. Delivery is at-most-once: the server acknowledges nothing, the echo
// broadcast is the only confirmation.
func (c *Client) SendPayload(roomID uint, p domain.Payload) error {
	message, err := p.Encode()
	if err != nil {
		return fmt.Errorf("client: encode payload: %w", err)
	}
	return c.send(hub.InboundMessage{Type: hub.TypeChat, RoomID: roomID, Message: message})
}

func (c *Client) send(msg hub.InboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("client: marshal message: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("client: write: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
