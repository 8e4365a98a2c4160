package game

import (
	"github.com/dartlink/caller-backend/internal/effects"
	"github.com/dartlink/caller-backend/internal/frames"
	"github.com/dartlink/caller-backend/internal/identity"
	"github.com/dartlink/caller-backend/pkg/types"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// TurnState is the per-turn accumulator. It is reset as a unit whenever a
// new turn begins: active seat change, takeout finished, new leg, new match.
// Busted and Announced are monotonic within a turn.
type TurnState struct {
	Score     int
	Darts     int
	Busted    bool
	Announced bool
}

// State is the full per-board match state. It is owned by a single board
// loop and folded one event at a time; HandleFrame and HandleAnnounce take
// it by value and return the successor.
type State struct {
	BoardID string
	Phase   Phase
	MatchID string

	Identity *identity.Resolver
	Turn     TurnState

	LastSeat   int   // previously observed active seat, -1 at turn-tracking reset
	LastScores []int // remaining-score snapshot from the previous state update

	legFinished bool // latched "finish seen" so repeated snapshots trigger once
	matchWon    bool
}

func NewState(boardID string) State {
	return State{
		BoardID:  boardID,
		Phase:    PhaseIdle,
		Identity: identity.NewResolver(boardID),
		LastSeat: -1,
	}
}

// Effect is an instruction to the board loop: emit an event, play sounds,
// push a display snapshot, or manipulate the pending announcement. The
// engine itself never performs I/O and never touches a clock.
type Effect interface{ isEffect() }

// Emit resolves Event through the effect dispatcher and hands the result to
// the canonical-event sink.
type Emit struct {
	Event string
	P     effects.Payload
}

// Call resolves Event to caller sounds and hands them to the caller sink.
type Call struct {
	Event string
	P     effects.Payload
}

// Display pushes a best-effort overlay snapshot.
type Display struct {
	Snapshot types.DisplayState
}

// Schedule requests the single deferred score announcement for this board,
// replacing any pending one.
type Schedule struct {
	Score int
}

// CancelPending marks any pending announcement inert.
type CancelPending struct{}

// RecordTurn, RecordLeg and RecordMatch feed the optional history store.
type RecordTurn struct {
	Seat   int
	Name   string
	Score  int
	Darts  int
	Busted bool
}

type RecordLeg struct {
	Winner int
	Name   string
}

type RecordMatch struct {
	Winner int
}

func (Emit) isEffect()          {}
func (Call) isEffect()          {}
func (Display) isEffect()       {}
func (Schedule) isEffect()      {}
func (CancelPending) isEffect() {}
func (RecordTurn) isEffect()    {}
func (RecordLeg) isEffect()     {}
func (RecordMatch) isEffect()   {}

// HandleFrame folds one canonical event into the state and returns the
// effects to run. Unrecognized events produce no effects.
func HandleFrame(s State, ev frames.Event) ([]Effect, State) {
	switch e := ev.(type) {
	case frames.MatchLifecycle:
		return handleLifecycle(s, e)
	case frames.BoardSignal:
		return handleSignal(s, e)
	case frames.Throw:
		return handleThrow(s, e)
	case frames.StateUpdate:
		return handleState(s, e)
	default:
		return nil, s
	}
}

func handleLifecycle(s State, e frames.MatchLifecycle) ([]Effect, State) {
	switch e.Phase {
	case frames.PhaseStart:
		next := NewState(s.BoardID)
		next.Phase = PhaseActive
		next.MatchID = e.MatchID
		next.Identity.ObserveSeats(e.Seats, e.HostBoardID)
		fx := []Effect{
			CancelPending{},
			Emit{Event: "game_on"},
			Call{Event: "game_on"},
			Display{Snapshot: matchStartSnapshot(next)},
		}
		return fx, next

	case frames.PhaseFinish:
		fx := []Effect{CancelPending{}}
		if !s.matchWon {
			fx = append(fx,
				Emit{Event: "match_won"},
				Call{Event: "match_won"},
				RecordMatch{Winner: -1},
			)
		}
		fx = append(fx, Emit{Event: "idle"})
		return fx, NewState(s.BoardID)
	}
	return nil, s
}

func handleSignal(s State, e frames.BoardSignal) ([]Effect, State) {
	switch e.Kind {
	case frames.SignalTakeoutStarted:
		return []Effect{
			Emit{Event: "takeout_start"},
			Call{Event: "takeout_start"},
		}, s

	case frames.SignalReady:
		return []Effect{Call{Event: "board_ready"}}, s

	case frames.SignalTakeoutFinished:
		// Backup announcement path: the turn is physically over whether
		// or not the third dart ever registered.
		fx := []Effect{CancelPending{}}
		if !s.Turn.Announced && s.Turn.Darts > 0 {
			s.Turn.Announced = true
			fx = append(fx, outcomeEffects(s, s.Turn.Score)...)
		}
		s.Turn = TurnState{}
		fx = append(fx,
			Emit{Event: "takeout_finished"},
			Call{Event: "takeout_finished"},
		)
		return fx, s
	}
	return nil, s
}

func handleThrow(s State, e frames.Throw) ([]Effect, State) {
	s.Turn.Score += e.Points
	s.Turn.Darts++

	// A dart landing here while a seat is active is physical evidence that
	// the seat belongs to this board.
	s.Identity.ObserveThrow(s.LastSeat)

	p := effects.Payload{
		Number:     e.Number,
		Multiplier: e.Multiplier,
		Bed:        e.Bed,
		Points:     e.Points,
		DartIndex:  e.DartIndex,
	}
	fx := []Effect{
		Emit{Event: "throw", P: p},
		Call{Event: "throw", P: p},
		Display{Snapshot: throwSnapshot(s, e)},
	}

	if s.LastSeat >= 0 && !s.Identity.IsBot(s.LastSeat) {
		fx = append(fx,
			Emit{Event: "my_turn"},
			Display{Snapshot: turnSnapshot(s, s.LastSeat, identity.Mine)},
		)
	}

	// Primary trigger: after the third dart, defer the score announcement
	// briefly so bust detection from the next state update can win.
	if s.Turn.Darts >= 3 && !s.Turn.Announced {
		fx = append(fx, Schedule{Score: s.Turn.Score})
	}
	return fx, s
}

func handleState(s State, e frames.StateUpdate) ([]Effect, State) {
	var fx []Effect

	// Seat metadata may be absent at match start and trickle in later, so
	// identity evidence is re-evaluated on every snapshot.
	if len(e.Seats) > 0 {
		s.Identity.ObserveSeats(e.Seats, "")
	}

	switch {
	case e.GameFinished && e.Winner >= 0:
		if !s.legFinished {
			s.legFinished = true
			s.Turn.Announced = true // win supersedes the score call
			fx = append(fx, CancelPending{})
			p := effects.Payload{FinishValue: s.Turn.Score}
			if e.MatchFinished {
				s.matchWon = true
				s.Phase = PhaseFinished
				fx = append(fx,
					Emit{Event: "match_won", P: p},
					Call{Event: "match_won"},
					RecordMatch{Winner: e.Winner},
				)
			} else {
				fx = append(fx,
					Emit{Event: "game_won", P: p},
					Call{Event: "game_won"},
					RecordLeg{Winner: e.Winner, Name: s.Identity.SeatName(e.Winner)},
				)
			}
		}
	case !e.GameFinished:
		if s.legFinished {
			// New leg: full turn-tracking reset, identity survives.
			s.legFinished = false
			s.Turn = TurnState{}
			s.LastSeat = -1
			s.LastScores = nil
		}
	}

	// Bust detection: the previous seat's remaining score did not move even
	// though darts were thrown.
	if e.ActiveSeat >= 0 && s.LastSeat >= 0 && e.ActiveSeat != s.LastSeat &&
		s.LastSeat < len(s.LastScores) && s.LastSeat < len(e.Scores) &&
		s.LastScores[s.LastSeat] == e.Scores[s.LastSeat] && s.Turn.Score > 0 {
		s.Turn.Busted = true
		if !s.Turn.Announced {
			s.Turn.Announced = true
			fx = append(fx, CancelPending{})
			fx = append(fx, bustEffects(s)...)
		}
	}

	if e.ActiveSeat >= 0 && e.ActiveSeat != s.LastSeat {
		own := s.Identity.TurnOwnership(e.ActiveSeat)
		switch own {
		case identity.Mine:
			fx = append(fx, Emit{Event: "my_turn"})
		case identity.Theirs:
			fx = append(fx, Emit{Event: "opponent_turn"})
		}
		fx = append(fx, Display{Snapshot: turnSnapshot(s, e.ActiveSeat, own)})

		if !e.GameFinished && e.ActiveSeat < len(e.Scores) {
			if rest := e.Scores[e.ActiveSeat]; rest >= 2 && rest <= 170 {
				fx = append(fx, Call{Event: "checkout_possible", P: effects.Payload{Remaining: rest}})
			}
		}

		// New turn begins: the accumulator, dart count, bust flag and
		// announced flag reset together.
		s.Turn = TurnState{}
		s.LastSeat = e.ActiveSeat
	}

	if len(e.Scores) > 0 {
		s.LastScores = append([]int(nil), e.Scores...)
		fx = append(fx, Display{Snapshot: stateSnapshot(s, e)})
	}
	return fx, s
}

// HandleAnnounce is the deferral's single resumption point. Stale fires are
// filtered by the scheduler before this is called; the Announced check here
// is the guard against another path having already won.
func HandleAnnounce(s State, score int) ([]Effect, State) {
	if s.Turn.Announced {
		return nil, s
	}
	s.Turn.Announced = true
	return outcomeEffects(s, score), s
}

// outcomeEffects returns the bust-or-score announcement effects. Callers
// have already latched Announced.
func outcomeEffects(s State, score int) []Effect {
	if s.Turn.Busted {
		return bustEffects(s)
	}
	return []Effect{
		Call{Event: "player_change", P: effects.Payload{RoundScore: score}},
		Emit{Event: "turn_score", P: effects.Payload{Points: score}},
		RecordTurn{
			Seat:  s.LastSeat,
			Name:  s.Identity.SeatName(s.LastSeat),
			Score: score,
			Darts: s.Turn.Darts,
		},
	}
}

func bustEffects(s State) []Effect {
	return []Effect{
		Emit{Event: "busted"},
		Call{Event: "busted"},
		RecordTurn{
			Seat:   s.LastSeat,
			Name:   s.Identity.SeatName(s.LastSeat),
			Score:  s.Turn.Score,
			Darts:  s.Turn.Darts,
			Busted: true,
		},
	}
}
