package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"project-sync-api/internal/realtime"
)

// Channel is a live subscription to one project's realtime channel. It owns
// the WebSocket connection, feeds incoming frames to a dispatcher, and
// carries outgoing cursor frames.
type Channel struct {
	conn   *websocket.Conn
	logger *zap.Logger
	done   chan struct{}
}

// Subscribe dials the project channel and starts dispatching frames. The
// returned channel is live until Close or a read error.
func Subscribe(ctx context.Context, baseURL, token string, projectID uuid.UUID, dispatcher *Dispatcher, logger *zap.Logger) (*Channel, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = fmt.Sprintf("%s/ws/projects/%s", u.Path, projectID)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	ch := &Channel{
		conn:   conn,
		logger: logger,
		done:   make(chan struct{}),
	}
	go ch.readLoop(dispatcher)
	return ch, nil
}

func (ch *Channel) readLoop(dispatcher *Dispatcher) {
	defer close(ch.done)
	for {
		_, message, err := ch.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ch.logger.Warn("channel read error", zap.Error(err))
			}
			return
		}
		var env realtime.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			ch.logger.Warn("bad channel frame", zap.Error(err))
			continue
		}
		dispatcher.Dispatch(env)
	}
}

// SendCursor pushes one cursor sample onto the channel. Meant to sit behind
// a CursorBroadcaster, not to be called per pointer event.
func (ch *Channel) SendCursor(pos realtime.CursorPosition) error {
	payload, err := realtime.Encode(realtime.EventCursorUpdate, "", pos)
	if err != nil {
		return err
	}
	ch.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return ch.conn.WriteMessage(websocket.TextMessage, payload)
}

// Done is closed when the channel's read loop exits
func (ch *Channel) Done() <-chan struct{} {
	return ch.done
}

// Close tears the subscription down
func (ch *Channel) Close() error {
	ch.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return ch.conn.Close()
}
