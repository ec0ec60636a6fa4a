package client

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"

	"huddle/models"
)

// Event is a push delivered over the websocket stream.
type Event struct {
	Type string
	// Set for new_message events.
	Message *models.Message
	// Raw payload for everything else.
	Data json.RawMessage
}

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscribe opens the push stream. Events arrive on the returned
// channel until the connection drops or ctx is cancelled, at which
// point the channel closes. The open connection is also what marks
// this user online to everyone else.
func (c *Client) Subscribe(ctx context.Context) (<-chan Event, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws?token=" + c.token

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	events := make(chan Event, 16)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var wire wireEvent
			if err := json.Unmarshal(data, &wire); err != nil {
				continue
			}

			event := Event{Type: wire.Event, Data: wire.Data}
			if wire.Event == "new_message" {
				var msg models.Message
				if err := json.Unmarshal(wire.Data, &msg); err != nil {
					continue
				}
				event.Message = &msg
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
