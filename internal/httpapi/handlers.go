package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/board"
	"github.com/dartlink/caller-backend/internal/frames"
	"github.com/dartlink/caller-backend/internal/hub"
)

type registerRequest struct {
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
}

type boardStatus struct {
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Phase   string `json:"phase"`
	MatchID string `json:"match_id,omitempty"`
	Clients int    `json:"clients"`
}

func RegisterBoard(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BoardID == "" {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			req.Name = req.BoardID
		}

		reply := make(chan *board.Board, 1)
		h.Inbox() <- hub.EnsureBoard{ID: req.BoardID, Name: req.Name, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to register board", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			BoardID string `json:"board_id"`
		}{BoardID: req.BoardID})
	}
}

func ListBoards(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []*board.Board, 1)
		h.Inbox() <- hub.ListBoards{Reply: reply}
		boards := <-reply

		out := make([]boardStatus, 0, len(boards))
		for _, b := range boards {
			view := make(chan board.View, 1)
			b.Inbox() <- board.GetState{Reply: view}
			select {
			case v := <-view:
				out = append(out, boardStatus{
					BoardID: b.ID(),
					Name:    v.Name,
					Phase:   string(v.State.Phase),
					MatchID: v.State.MatchID,
					Clients: v.NumClients,
				})
			case <-time.After(time.Second):
				out = append(out, boardStatus{BoardID: b.ID(), Name: b.Name()})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

func RemoveBoard(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Inbox() <- hub.RemoveBoard{ID: chi.URLParam(r, "boardID")}
		w.WriteHeader(http.StatusNoContent)
	}
}

// IngestFrame is the transport boundary: one raw provider frame per request,
// delivered in arrival order to the board's loop.
func IngestFrame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := lookupBoard(h, chi.URLParam(r, "boardID"))
		if !ok {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		var f frames.Frame
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			log.Debug("rejecting malformed frame", zap.Error(err))
			http.Error(w, "bad frame", http.StatusBadRequest)
			return
		}

		b.Inbox() <- board.FromProvider{Frame: f}
		w.WriteHeader(http.StatusAccepted)
	}
}

func SimulateEvent(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := lookupBoard(h, chi.URLParam(r, "boardID"))
		if !ok {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}

		var req struct {
			Event string `json:"event"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Event == "" {
			http.Error(w, "event required", http.StatusBadRequest)
			return
		}

		b.Inbox() <- board.Simulate{Event: req.Event}
		w.WriteHeader(http.StatusAccepted)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupBoard(h *hub.Hub, id string) (*board.Board, bool) {
	reply := make(chan *board.Board, 1)
	h.Inbox() <- hub.GetBoard{ID: id, Reply: reply}
	b := <-reply
	return b, b != nil
}
