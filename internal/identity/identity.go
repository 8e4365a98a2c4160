package identity

import (
	"fmt"
	"strings"

	"github.com/dartlink/caller-backend/internal/frames"
)

// Evidence is one observed reason to believe a given seat belongs to this
// board. Sources are ranked; a pin is only replaced by evidence of strictly
// higher rank, with one exception: physical correlation may re-pin itself in
// networked matches, because a dart landing on this board is ground truth for
// this board regardless of what an earlier dart suggested.
type Evidence interface {
	rank() int
	seat() int
}

// BoardIDMatch: a seat's reported owning-board id equals this board's id.
type BoardIDMatch struct{ Seat int }

// PhysicalCorrelation: a dart landed here while Seat was active.
type PhysicalCorrelation struct{ Seat int }

// HostFallback: networked match with no board-id data, this board is host.
type HostFallback struct{}

// FirstNonBotFallback: local match, first human seat assumed to be ours.
type FirstNonBotFallback struct{ Seat int }

func (BoardIDMatch) rank() int        { return 4 }
func (PhysicalCorrelation) rank() int { return 3 }
func (HostFallback) rank() int        { return 2 }
func (FirstNonBotFallback) rank() int { return 1 }

func (e BoardIDMatch) seat() int        { return e.Seat }
func (e PhysicalCorrelation) seat() int { return e.Seat }
func (HostFallback) seat() int          { return 0 }
func (e FirstNonBotFallback) seat() int { return e.Seat }

// Ownership is the answer to "is the active seat mine".
type Ownership int

const (
	Unknown Ownership = iota
	Mine
	Theirs
)

// Resolver maintains the local seat pin, local/networked classification and
// per-seat bot flags for one match. It is not safe for concurrent use; the
// owning board loop is single-threaded.
type Resolver struct {
	boardID string

	names   []string
	bots    map[int]bool
	mySeat  int
	pinRank int
	local   bool
	boards  map[string]bool // distinct owning-board ids seen so far
}

func NewResolver(boardID string) *Resolver {
	return &Resolver{
		boardID: boardID,
		bots:    make(map[int]bool),
		mySeat:  -1,
		local:   true,
		boards:  make(map[string]bool),
	}
}

// ObserveSeats folds seat metadata from a match start or state snapshot. The
// provider may omit seats at start and deliver them later, so this runs on
// every snapshot.
func (r *Resolver) ObserveSeats(seats []frames.Seat, hostBoardID string) {
	if len(seats) == 0 {
		return
	}
	for i, s := range seats {
		if i >= len(r.names) {
			name := s.Name
			if name == "" {
				name = defaultSeatName(i)
			}
			r.names = append(r.names, name)
		}
		if !r.bots[i] && (s.HasBotMarker || botName(seatNameOr(r.names, i, s.Name))) {
			r.bots[i] = true
		}
		if s.BoardID != "" {
			r.boards[s.BoardID] = true
		}
	}

	// Two distinct board ids among the seats means a networked match;
	// the flag latches and never flips back within this match.
	if len(r.boards) > 1 {
		r.local = false
	}

	for i, s := range seats {
		if s.BoardID != "" && s.BoardID == r.boardID {
			r.offer(BoardIDMatch{Seat: i})
		}
	}
	if !r.local && r.mySeat < 0 && hostBoardID != "" && hostBoardID == r.boardID {
		r.offer(HostFallback{})
	}
	if r.local && r.mySeat < 0 {
		r.offer(FirstNonBotFallback{Seat: r.firstHuman()})
	}
}

// ObserveThrow records a physical dart landing on this board while the given
// seat was active.
func (r *Resolver) ObserveThrow(activeSeat int) {
	if activeSeat < 0 {
		return
	}
	r.offer(PhysicalCorrelation{Seat: activeSeat})
}

func (r *Resolver) offer(ev Evidence) {
	if ev.seat() < 0 {
		return
	}
	adopt := false
	switch {
	case r.mySeat < 0 || ev.rank() > r.pinRank:
		adopt = true
	case ev.rank() == r.pinRank:
		switch ev.(type) {
		case BoardIDMatch:
			adopt = true
		case PhysicalCorrelation:
			// Equal-rank correction only on a networked match.
			adopt = !r.local
		}
	}
	if !adopt {
		return
	}
	r.mySeat = ev.seat()
	r.pinRank = ev.rank()
}

func (r *Resolver) firstHuman() int {
	for i := range r.names {
		if !r.bots[i] {
			return i
		}
	}
	if len(r.names) > 0 {
		return 0
	}
	return -1
}

// TurnOwnership evaluates the turn-indicator matrix for the given active
// seat. Local with no bots: both operators share this board, always Mine.
// Local with bots: Mine unless a bot is up. Networked: compare against the
// pinned seat, Unknown when nothing is pinned yet.
func (r *Resolver) TurnOwnership(activeSeat int) Ownership {
	if activeSeat < 0 {
		return Unknown
	}
	switch {
	case r.local && !r.HasBots():
		return Mine
	case r.local:
		if r.bots[activeSeat] {
			return Theirs
		}
		return Mine
	case r.mySeat >= 0:
		if activeSeat == r.mySeat {
			return Mine
		}
		return Theirs
	default:
		return Unknown
	}
}

func (r *Resolver) MySeat() int      { return r.mySeat }
func (r *Resolver) IsLocal() bool    { return r.local }
func (r *Resolver) HasBots() bool    { return len(r.bots) > 0 }
func (r *Resolver) NumSeats() int    { return len(r.names) }
func (r *Resolver) IsBot(i int) bool { return r.bots[i] }

func (r *Resolver) SeatName(i int) string {
	if i < 0 || i >= len(r.names) {
		return ""
	}
	return r.names[i]
}

var botSubstrings = []string{"bot", "cpu", "computer", "ki "}

func botName(name string) bool {
	lower := strings.ToLower(name)
	for _, sub := range botSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func seatNameOr(names []string, i int, fallback string) string {
	if i < len(names) {
		return names[i]
	}
	return fallback
}

func defaultSeatName(i int) string {
	return fmt.Sprintf("Player %d", i+1)
}
