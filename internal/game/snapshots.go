package game

import (
	"strconv"

	"github.com/dartlink/caller-backend/internal/frames"
	"github.com/dartlink/caller-backend/internal/identity"
	"github.com/dartlink/caller-backend/pkg/types"
)

func matchStartSnapshot(s State) types.DisplayState {
	return types.DisplayState{
		Kind:       "match_start",
		IsLocal:    s.Identity.IsLocal(),
		HasBot:     s.Identity.HasBots(),
		MySeat:     s.Identity.MySeat(),
		ActiveSeat: -1,
	}
}

func throwSnapshot(s State, e frames.Throw) types.DisplayState {
	text := e.Segment
	if text == "" {
		text = strconv.Itoa(e.Points)
	}
	return types.DisplayState{
		Kind:        "throw",
		ThrowText:   text,
		Points:      e.Points,
		TurnScore:   s.Turn.Score,
		DartsInTurn: s.Turn.Darts,
		MySeat:      s.Identity.MySeat(),
		ActiveSeat:  s.LastSeat,
	}
}

func turnSnapshot(s State, activeSeat int, own identity.Ownership) types.DisplayState {
	return types.DisplayState{
		Kind:       "turn_update",
		IsMyTurn:   ownershipPtr(own),
		IsLocal:    s.Identity.IsLocal(),
		HasBot:     s.Identity.HasBots(),
		MySeat:     s.Identity.MySeat(),
		ActiveSeat: activeSeat,
		ActiveName: s.Identity.SeatName(activeSeat),
	}
}

func stateSnapshot(s State, e frames.StateUpdate) types.DisplayState {
	snap := types.DisplayState{
		Kind:       "state_update",
		IsMyTurn:   ownershipPtr(s.Identity.TurnOwnership(e.ActiveSeat)),
		IsLocal:    s.Identity.IsLocal(),
		HasBot:     s.Identity.HasBots(),
		MySeat:     s.Identity.MySeat(),
		ActiveSeat: e.ActiveSeat,
		ActiveName: s.Identity.SeatName(e.ActiveSeat),
		Scores:     e.Scores,
	}
	// Prefer our own remaining score; fall back to the active seat's.
	if my := s.Identity.MySeat(); my >= 0 && my < len(e.Scores) {
		rem := e.Scores[my]
		snap.Remaining = &rem
	} else if e.ActiveSeat >= 0 && e.ActiveSeat < len(e.Scores) {
		rem := e.Scores[e.ActiveSeat]
		snap.Remaining = &rem
	}
	return snap
}

// ownershipPtr renders the turn indicator for wire transport: nil means
// unknown, never a guessed true/false.
func ownershipPtr(own identity.Ownership) *bool {
	switch own {
	case identity.Mine:
		v := true
		return &v
	case identity.Theirs:
		v := false
		return &v
	default:
		return nil
	}
}
