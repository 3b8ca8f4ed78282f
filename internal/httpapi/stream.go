package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream upgrades to a websocket and forwards one TickNotify per
// finalized tick until the client disconnects. There is no handshake:
// actions still go through POST /server/{id}/action, so the only thing
// flowing over this connection is the tick clock.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, err := g.Subscribe(ctx)
	if err != nil {
		return
	}
	defer g.Unsubscribe(ch)

	go drainPings(ctx, conn, cancel)

	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				cancel()
				return
			}
		}
	}
}

// drainPings reads and discards whatever the client sends, so the
// connection's read side stays drained and a client-initiated close is
// observed promptly.
func drainPings(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	for {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
