package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/board"
	"github.com/dartlink/caller-backend/internal/effects"
)

type HubMsg interface{ isHubMsg() }

// EnsureBoard creates the board loop if it does not exist yet and replies
// with it either way.
type EnsureBoard struct {
	ID    string
	Name  string
	Reply chan *board.Board
}

type GetBoard struct {
	ID    string
	Reply chan *board.Board // may be nil
}

// ListBoards replies with every live board; callers inspect each one through
// its own GetState message.
type ListBoards struct {
	Reply chan []*board.Board
}

// RemoveBoard shuts the board loop down and forgets it. Used on disconnect:
// no per-match state survives.
type RemoveBoard struct {
	ID string
}

type ShutdownHub struct{}

func (EnsureBoard) isHubMsg() {}
func (GetBoard) isHubMsg()    {}
func (ListBoards) isHubMsg()  {}
func (RemoveBoard) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Deps is everything a new board loop gets injected at construction.
type Deps struct {
	Sink          board.Sink
	Recorder      board.Recorder
	Mappings      map[string]effects.Mapping
	AnnounceDelay time.Duration
	Logger        *zap.Logger
}

// Hub owns the registry of live boards. Boards never share mutable state;
// the hub only routes messages and lifecycle.
type Hub struct {
	inbox  chan HubMsg
	boards map[string]*board.Board
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		boards: make(map[string]*board.Board),
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureBoard:
				if b := h.boards[msg.ID]; b != nil {
					msg.Reply <- b
					break
				}
				b := board.New(h.ctx, board.Options{
					ID:            msg.ID,
					Name:          msg.Name,
					Sink:          h.deps.Sink,
					Recorder:      h.deps.Recorder,
					Mappings:      h.deps.Mappings,
					AnnounceDelay: h.deps.AnnounceDelay,
					Logger:        h.deps.Logger,
				})
				h.boards[msg.ID] = b
				h.deps.Logger.Info("board registered", zap.String("board", msg.ID))
				msg.Reply <- b

			case GetBoard:
				msg.Reply <- h.boards[msg.ID]

			case ListBoards:
				out := make([]*board.Board, 0, len(h.boards))
				for _, b := range h.boards {
					out = append(out, b)
				}
				msg.Reply <- out

			case RemoveBoard:
				if b := h.boards[msg.ID]; b != nil {
					b.Inbox() <- board.Shutdown{}
					delete(h.boards, msg.ID)
					h.deps.Logger.Info("board removed", zap.String("board", msg.ID))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, b := range h.boards {
		b.Inbox() <- board.Shutdown{}
		delete(h.boards, id)
	}
	h.cancel()
}
