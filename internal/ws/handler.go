package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/board"
	"github.com/dartlink/caller-backend/internal/hub"
	"github.com/dartlink/caller-backend/pkg/types"
)

// Handler attaches a display-overlay client to one board's snapshot feed.
// The feed is one-way and best-effort: a client that stops draining is
// dropped by the board loop.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := r.URL.Query().Get("board")
		if boardID == "" {
			http.Error(w, "missing board", http.StatusBadRequest)
			return
		}

		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.GetBoard{ID: boardID, Reply: reply}
		b := <-reply
		if b == nil {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.DisplayState, 8)
		clientID := uuid.NewString()

		b.Inbox() <- board.Join{ClientID: clientID, Outbox: out}
		defer func() { b.Inbox() <- board.Leave{ClientID: clientID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "display_state", Board: boardID, Data: &snap}
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Warn("display snapshot marshal failed", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop exists only to observe the close handshake; display
		// clients never send meaningful data.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}
}
