package identity

import (
	"testing"

	"github.com/dartlink/caller-backend/internal/frames"
)

func TestBoardIDMatchPinsAndHolds(t *testing.T) {
	r := NewResolver("board-a")
	r.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-a"},
		{Name: "Bob", BoardID: "board-b"},
	}, "")

	if r.IsLocal() {
		t.Fatal("two distinct board ids should classify the match as networked")
	}
	if got := r.MySeat(); got != 0 {
		t.Fatalf("MySeat = %d, want 0", got)
	}

	// Physical correlation is lower-ranked and must not displace the pin.
	r.ObserveThrow(1)
	if got := r.MySeat(); got != 0 {
		t.Fatalf("MySeat after throw = %d, want 0 (board-id pin holds)", got)
	}
}

func TestBoardIDMatchRepinsOnSeatMove(t *testing.T) {
	r := NewResolver("board-a")
	r.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-a"},
		{Name: "Bob", BoardID: "board-b"},
	}, "")

	// A later snapshot reports our board id on a different seat; follow it.
	r.ObserveSeats([]frames.Seat{
		{Name: "Bob", BoardID: "board-b"},
		{Name: "Alice", BoardID: "board-a"},
	}, "")
	if got := r.MySeat(); got != 1 {
		t.Fatalf("MySeat = %d, want 1", got)
	}
}

func TestPhysicalCorrelationRepinsOnlyNetworked(t *testing.T) {
	cases := []struct {
		name     string
		seats    []frames.Seat
		wantSeat int
	}{
		{
			name: "networked follows the latest dart",
			seats: []frames.Seat{
				{Name: "Alice", BoardID: "board-x"},
				{Name: "Bob", BoardID: "board-y"},
			},
			wantSeat: 1,
		},
		{
			name: "local keeps the first pin",
			seats: []frames.Seat{
				{Name: "Alice"},
				{Name: "Bob"},
			},
			wantSeat: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver("board-a")
			r.ObserveSeats(tc.seats, "")
			r.ObserveThrow(0)
			r.ObserveThrow(1)
			if got := r.MySeat(); got != tc.wantSeat {
				t.Fatalf("MySeat = %d, want %d", got, tc.wantSeat)
			}
		})
	}
}

func TestHostFallback(t *testing.T) {
	r := NewResolver("board-a")
	// Networked (two foreign board ids), no seat reports our id, but we host.
	r.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-x"},
		{Name: "Bob", BoardID: "board-y"},
	}, "board-a")

	if r.IsLocal() {
		t.Fatal("expected networked classification")
	}
	if got := r.MySeat(); got != 0 {
		t.Fatalf("MySeat = %d, want 0 (host fallback)", got)
	}

	// Real board-id evidence outranks the host fallback.
	r.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-x"},
		{Name: "Bob", BoardID: "board-a"},
	}, "board-a")
	if got := r.MySeat(); got != 1 {
		t.Fatalf("MySeat = %d, want 1", got)
	}
}

func TestFirstNonBotFallback(t *testing.T) {
	r := NewResolver("board-a")
	r.ObserveSeats([]frames.Seat{
		{Name: "CPU Joe"},
		{Name: "Dana"},
	}, "")

	if !r.IsLocal() {
		t.Fatal("no board ids should classify the match as local")
	}
	if got := r.MySeat(); got != 1 {
		t.Fatalf("MySeat = %d, want 1 (first human seat)", got)
	}
}

func TestIsLocalLatches(t *testing.T) {
	r := NewResolver("board-a")
	r.ObserveSeats([]frames.Seat{{Name: "Alice", BoardID: "board-a"}}, "")
	if !r.IsLocal() {
		t.Fatal("single board id stays local")
	}

	r.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-a"},
		{Name: "Bob", BoardID: "board-b"},
	}, "")
	if r.IsLocal() {
		t.Fatal("second distinct board id flips to networked")
	}

	// Later snapshots without board ids must not flip it back.
	r.ObserveSeats([]frames.Seat{{Name: "Alice"}, {Name: "Bob"}}, "")
	if r.IsLocal() {
		t.Fatal("networked classification is permanent for the match")
	}
}

func TestBotDetection(t *testing.T) {
	cases := []struct {
		name string
		seat frames.Seat
		want bool
	}{
		{name: "explicit marker", seat: frames.Seat{Name: "Friendly", HasBotMarker: true}, want: true},
		{name: "name bot", seat: frames.Seat{Name: "Level 8 Bot"}, want: true},
		{name: "name cpu", seat: frames.Seat{Name: "CPU hard"}, want: true},
		{name: "name computer", seat: frames.Seat{Name: "my Computer"}, want: true},
		{name: "name ki with space", seat: frames.Seat{Name: "KI Stufe 3"}, want: true},
		{name: "plain human", seat: frames.Seat{Name: "Dana"}, want: false},
		{name: "ki inside a word", seat: frames.Seat{Name: "Kira"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver("board-a")
			r.ObserveSeats([]frames.Seat{tc.seat}, "")
			if got := r.IsBot(0); got != tc.want {
				t.Fatalf("IsBot(0) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTurnOwnership(t *testing.T) {
	localHumans := NewResolver("board-a")
	localHumans.ObserveSeats([]frames.Seat{{Name: "Alice"}, {Name: "Bob"}}, "")

	localWithBot := NewResolver("board-a")
	localWithBot.ObserveSeats([]frames.Seat{{Name: "Alice"}, {Name: "Level 5 Bot"}}, "")

	networkedPinned := NewResolver("board-a")
	networkedPinned.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-a"},
		{Name: "Bob", BoardID: "board-b"},
	}, "")

	networkedUnknown := NewResolver("board-a")
	networkedUnknown.ObserveSeats([]frames.Seat{
		{Name: "Alice", BoardID: "board-x"},
		{Name: "Bob", BoardID: "board-y"},
	}, "")

	cases := []struct {
		name   string
		r      *Resolver
		active int
		want   Ownership
	}{
		{name: "local humans seat 0", r: localHumans, active: 0, want: Mine},
		{name: "local humans seat 1", r: localHumans, active: 1, want: Mine},
		{name: "local bot human up", r: localWithBot, active: 0, want: Mine},
		{name: "local bot bot up", r: localWithBot, active: 1, want: Theirs},
		{name: "networked my seat", r: networkedPinned, active: 0, want: Mine},
		{name: "networked their seat", r: networkedPinned, active: 1, want: Theirs},
		{name: "networked unpinned", r: networkedUnknown, active: 0, want: Unknown},
		{name: "no active seat", r: localHumans, active: -1, want: Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.TurnOwnership(tc.active); got != tc.want {
				t.Fatalf("TurnOwnership(%d) = %v, want %v", tc.active, got, tc.want)
			}
		})
	}
}

func TestSeatNamesAndDefaults(t *testing.T) {
	r := NewResolver("board-a")
	r.ObserveSeats([]frames.Seat{{Name: "Alice"}, {}}, "")

	if got := r.SeatName(0); got != "Alice" {
		t.Fatalf("SeatName(0) = %q", got)
	}
	if got := r.SeatName(1); got != "Player 2" {
		t.Fatalf("SeatName(1) = %q", got)
	}
	if got := r.SeatName(5); got != "" {
		t.Fatalf("SeatName(5) = %q, want empty", got)
	}
	if got := r.NumSeats(); got != 2 {
		t.Fatalf("NumSeats = %d, want 2", got)
	}
}
