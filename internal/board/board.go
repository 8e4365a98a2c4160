package board

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/effects"
	"github.com/dartlink/caller-backend/internal/frames"
	"github.com/dartlink/caller-backend/internal/game"
	"github.com/dartlink/caller-backend/pkg/types"
)

type Msg interface{ isBoardMsg() }

// FromProvider delivers one raw frame from the transport boundary.
type FromProvider struct {
	Frame frames.Frame
}

// Simulate triggers a canonical event directly, for testing mappings from
// the admin UI without a live match.
type Simulate struct {
	Event string
}

// Join registers a display client; it receives snapshots on Outbox until it
// leaves, falls behind, or the board shuts down.
type Join struct {
	ClientID string
	Outbox   chan types.DisplayState
}

type Leave struct {
	ClientID string
}

// GetState reflects internal state without data races; used by tests and
// the status endpoint.
type GetState struct {
	Reply chan View
}

type Shutdown struct{}

// announceElapsed is posted back by the deferral timer. Fires whose gen no
// longer matches the board's were cancelled or superseded and are dropped at
// this single resumption point.
type announceElapsed struct {
	gen   uint64
	score int
}

func (FromProvider) isBoardMsg()    {}
func (Simulate) isBoardMsg()        {}
func (Join) isBoardMsg()            {}
func (Leave) isBoardMsg()           {}
func (GetState) isBoardMsg()        {}
func (Shutdown) isBoardMsg()        {}
func (announceElapsed) isBoardMsg() {}

type View struct {
	Name       string
	State      game.State
	NumClients int
}

// Sink receives resolved effects and caller sounds. Delivery is
// fire-and-forget; the board never depends on the outcome.
type Sink interface {
	EmitCanonicalEvent(boardID, event string, ids []effects.Identifier)
	PlayCallerSounds(boardID, event string, sounds []effects.Identifier, p effects.Payload)
}

// Recorder persists finished turns, legs and matches. Optional; a nil
// Recorder disables history.
type Recorder interface {
	RecordTurn(boardID, matchID string, seat int, name string, score, darts int, busted bool)
	RecordLeg(boardID, matchID string, winner int, name string)
	RecordMatch(boardID, matchID string, winner int)
}

const defaultAnnounceDelay = 200 * time.Millisecond

type Options struct {
	ID            string
	Name          string
	Sink          Sink
	Recorder      Recorder
	Mappings      map[string]effects.Mapping // nil = defaults
	AnnounceDelay time.Duration              // 0 = 200ms
	Logger        *zap.Logger
}

// Board runs one single-threaded processing loop per physical board. One
// frame is fully folded into state before the next is considered, so the
// "check announced, then set it" sequence needs no locking.
type Board struct {
	id       string
	name     string
	inbox    chan Msg
	state    game.State
	clients  map[string]chan types.DisplayState
	mappings map[string]effects.Mapping
	sink     Sink
	rec      Recorder
	delay    time.Duration
	log      *zap.Logger

	gen   uint64 // pending-announcement generation; bump = cancel
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, opts Options) *Board {
	ctx, cancel := context.WithCancel(parent)
	mappings := opts.Mappings
	if mappings == nil {
		mappings = effects.Defaults()
	}
	delay := opts.AnnounceDelay
	if delay <= 0 {
		delay = defaultAnnounceDelay
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	b := &Board{
		id:       opts.ID,
		name:     opts.Name,
		inbox:    make(chan Msg, 64),
		state:    game.NewState(opts.ID),
		clients:  make(map[string]chan types.DisplayState),
		mappings: mappings,
		sink:     opts.Sink,
		rec:      opts.Recorder,
		delay:    delay,
		log:      log.With(zap.String("board", opts.Name)),
		ctx:      ctx,
		cancel:   cancel,
	}
	go b.loop()
	return b
}

func (b *Board) Inbox() chan<- Msg { return b.inbox }
func (b *Board) ID() string        { return b.id }
func (b *Board) Name() string      { return b.name }

func (b *Board) loop() {
	for {
		select {
		case <-b.ctx.Done():
			b.shutdown()
			return

		case m := <-b.inbox:
			switch msg := m.(type) {
			case FromProvider:
				b.foldFrame(msg.Frame)

			case announceElapsed:
				if msg.gen != b.gen {
					break // cancelled or superseded while queued
				}
				fx, next := game.HandleAnnounce(b.state, msg.score)
				b.state = next
				b.runEffects(fx)

			case Simulate:
				b.log.Info("simulating event", zap.String("event", msg.Event))
				b.runEffects([]game.Effect{
					game.Emit{Event: msg.Event},
					game.Call{Event: msg.Event},
				})

			case Join:
				b.clients[msg.ClientID] = msg.Outbox

			case Leave:
				// The loop owns all sends, so closing here is safe and
				// releases the client's writer goroutine.
				if ch, ok := b.clients[msg.ClientID]; ok {
					close(ch)
					delete(b.clients, msg.ClientID)
				}

			case GetState:
				msg.Reply <- View{
					Name:       b.name,
					State:      b.state,
					NumClients: len(b.clients),
				}

			case Shutdown:
				b.shutdown()
				return
			}
		}
	}
}

// foldFrame classifies and applies one frame. A panic while folding
// terminates handling of that frame only; the board's state stays intact for
// the next one.
func (b *Board) foldFrame(f frames.Frame) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("frame handler failed", zap.Any("panic", r),
				zap.String("channel", f.Channel), zap.String("topic", f.Topic))
		}
	}()

	ev, ok := frames.Normalize(f)
	if !ok {
		b.log.Debug("dropping unrecognized frame",
			zap.String("channel", f.Channel), zap.String("topic", f.Topic))
		return
	}
	fx, next := game.HandleFrame(b.state, ev)
	b.state = next
	b.runEffects(fx)
}

func (b *Board) runEffects(fx []game.Effect) {
	for _, effect := range fx {
		switch e := effect.(type) {
		case game.Emit:
			ids := effects.Select(e.Event, effects.Resolve(e.Event, e.P), b.mappings)
			if len(ids) > 0 && b.sink != nil {
				b.sink.EmitCanonicalEvent(b.id, e.Event, ids)
			}

		case game.Call:
			sounds := effects.ResolveSounds(e.Event, e.P)
			if len(sounds) > 0 && b.sink != nil {
				b.sink.PlayCallerSounds(b.id, e.Event, sounds, e.P)
			}

		case game.Display:
			b.broadcast(e.Snapshot)

		case game.Schedule:
			b.schedule(e.Score)

		case game.CancelPending:
			b.cancelPending()

		case game.RecordTurn:
			if b.rec != nil {
				b.rec.RecordTurn(b.id, b.state.MatchID, e.Seat, e.Name, e.Score, e.Darts, e.Busted)
			}

		case game.RecordLeg:
			if b.rec != nil {
				b.rec.RecordLeg(b.id, b.state.MatchID, e.Winner, e.Name)
			}

		case game.RecordMatch:
			if b.rec != nil {
				b.rec.RecordMatch(b.id, b.state.MatchID, e.Winner)
			}
		}
	}
}

// schedule replaces any pending announcement with a new deferral. The timer
// posts back into the inbox so the fire is folded on the loop goroutine like
// every other input.
func (b *Board) schedule(score int) {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
	}
	gen := b.gen
	b.timer = time.AfterFunc(b.delay, func() {
		select {
		case b.inbox <- announceElapsed{gen: gen, score: score}:
		case <-b.ctx.Done():
		}
	})
}

// cancelPending marks the pending announcement inert. Idempotent: if the
// timer already fired, the queued message is stale and dropped by its gen.
func (b *Board) cancelPending() {
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Board) broadcast(snap types.DisplayState) {
	for id, ch := range b.clients {
		select {
		case ch <- snap:
		default:
			// Slow or stuck display client; presentation is best-effort.
			close(ch)
			delete(b.clients, id)
		}
	}
}

func (b *Board) shutdown() {
	b.cancelPending()
	for id, ch := range b.clients {
		close(ch)
		delete(b.clients, id)
	}
	b.cancel()
}
