package frames

import (
	"encoding/json"
	"strings"
)

// Frame is one raw provider message as delivered by the transport layer.
// Data may be a JSON object or a string containing JSON, depending on the
// provider's envelope version.
type Frame struct {
	Channel string          `json:"channel"`
	Topic   string          `json:"topic"`
	Data    json.RawMessage `json:"data"`
}

type Event interface{ isEvent() }

// Throw is a single dart registered by the board.
type Throw struct {
	Number     int
	Multiplier int
	Bed        string
	Points     int
	DartIndex  int // 0-based position within the turn, -1 when not reported
	Segment    string
}

type Signal string

const (
	SignalReady           Signal = "board-ready"
	SignalStopped         Signal = "board-stopped"
	SignalTakeoutStarted  Signal = "takeout-started"
	SignalTakeoutFinished Signal = "takeout-finished"
	SignalManualReset     Signal = "manual-reset"
	SignalCalibStarted    Signal = "calibration-started"
	SignalCalibFinished   Signal = "calibration-finished"
)

// BoardSignal is a physical board event: takeout, ready, calibration.
type BoardSignal struct {
	Kind Signal
}

type Phase string

const (
	PhaseStart  Phase = "start"
	PhaseFinish Phase = "finish"
)

// MatchLifecycle marks a match starting or finishing on this board.
type MatchLifecycle struct {
	Phase       Phase
	MatchID     string
	Seats       []Seat
	HostBoardID string
}

// Seat is one participant slot as reported by the provider. HasBotMarker is
// set only when an explicit cpu/bot field was present; name-based bot
// detection is the identity resolver's job.
type Seat struct {
	Name         string
	BoardID      string
	HasBotMarker bool
}

// StateUpdate is a scores/active-player snapshot for the live match.
type StateUpdate struct {
	Seats         []Seat
	GameFinished  bool
	MatchFinished bool
	Winner        int // -1 when absent
	ActiveSeat    int // -1 when absent
	Scores        []int
}

func (Throw) isEvent()          {}
func (BoardSignal) isEvent()    {}
func (MatchLifecycle) isEvent() {}
func (StateUpdate) isEvent()    {}

var signalNames = map[string]Signal{
	"Started":              SignalReady, // board ready to detect, fires after each takeout
	"Stopped":              SignalStopped,
	"Takeout started":      SignalTakeoutStarted,
	"Takeout finished":     SignalTakeoutFinished,
	"Manual reset":         SignalManualReset,
	"Calibration started":  SignalCalibStarted,
	"Calibration finished": SignalCalibFinished,
}

// Normalize classifies one raw frame into a canonical event. The second
// return is false for unrecognized channel/topic combinations and malformed
// payloads; both are dropped without error so unknown provider message types
// stay forward-compatible.
func Normalize(f Frame) (Event, bool) {
	payload, ok := unwrap(f.Data)
	if !ok {
		return nil, false
	}

	switch {
	case f.Channel == "autodarts.boards" && strings.Contains(f.Topic, ".events"):
		return normalizeBoardEvent(payload)
	case f.Channel == "autodarts.boards" && strings.Contains(f.Topic, ".matches"):
		return normalizeLifecycle(payload)
	case f.Channel == "autodarts.matches" && strings.Contains(f.Topic, ".state"):
		return normalizeState(payload), true
	default:
		return nil, false
	}
}

// unwrap tolerates both envelope versions: data as a JSON object and data as
// a string that itself contains JSON.
func unwrap(raw json.RawMessage) (map[string]any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return m, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

func normalizeBoardEvent(p map[string]any) (Event, bool) {
	name := strField(p, "event")
	if name == "Throw detected" {
		return normalizeThrow(p), true
	}
	if sig, ok := signalNames[name]; ok {
		return BoardSignal{Kind: sig}, true
	}
	return nil, false
}

func normalizeThrow(p map[string]any) Throw {
	seg := mapField(p, "throw", "segment")
	number := intField(seg, 0, "number")
	multiplier := intField(seg, 0, "multiplier")
	throwNumber := intField(p, 0, "throwNumber")
	dartIndex := -1
	if throwNumber > 0 {
		dartIndex = throwNumber - 1
	}
	return Throw{
		Number:     number,
		Multiplier: multiplier,
		Bed:        strField(seg, "bed"),
		Points:     number * multiplier,
		DartIndex:  dartIndex,
		Segment:    strField(seg, "name"),
	}
}

func normalizeLifecycle(p map[string]any) (Event, bool) {
	matchID := strField(p, "id")
	if matchID == "" {
		return nil, false
	}
	switch strField(p, "event") {
	case "start":
		return MatchLifecycle{
			Phase:       PhaseStart,
			MatchID:     matchID,
			Seats:       seatList(p),
			HostBoardID: strField(p, "hostBoardId", "creatorBoardId"),
		}, true
	case "finish":
		return MatchLifecycle{Phase: PhaseFinish, MatchID: matchID}, true
	default:
		return nil, false
	}
}

func normalizeState(p map[string]any) StateUpdate {
	return StateUpdate{
		Seats:         seatList(p),
		GameFinished:  boolField(p, "gameFinished", "finished", "isFinished"),
		MatchFinished: boolField(p, "matchFinished", "finished"),
		Winner:        intField(p, -1, "gameWinner"),
		ActiveSeat:    seatField(p, "player", "currentPlayer", "activePlayer", "turn"),
		Scores:        intList(p, "gameScores", "scores", "playerScores", "remainingScores"),
	}
}

func seatList(p map[string]any) []Seat {
	raw, ok := p["players"].([]any)
	if !ok {
		raw, ok = p["participants"].([]any)
	}
	if !ok {
		return nil
	}
	seats := make([]Seat, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case map[string]any:
			seats = append(seats, Seat{
				Name:         strField(v, "name", "displayName", "userName", "username", "userId", "id"),
				BoardID:      strField(v, "boardId", "board_id", "board"),
				HasBotMarker: hasBotMarker(v),
			})
		case string:
			seats = append(seats, Seat{Name: v})
		default:
			seats = append(seats, Seat{})
		}
	}
	return seats
}

func hasBotMarker(p map[string]any) bool {
	if _, ok := p["cpuPPR"]; ok {
		return true
	}
	if _, ok := p["cpu"]; ok {
		return true
	}
	return boolField(p, "isBot", "isCpu", "bot")
}

// Field helpers try each historical spelling in order and take the first
// value present with a usable type.

func strField(p map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := p[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intField(p map[string]any, missing int, keys ...string) int {
	for _, k := range keys {
		if f, ok := p[k].(float64); ok {
			return int(f)
		}
	}
	return missing
}

// seatField is intField restricted to valid seat indexes: a negative value
// means "not reported" under that spelling, so later spellings still get a
// chance to carry the seat.
func seatField(p map[string]any, keys ...string) int {
	for _, k := range keys {
		if f, ok := p[k].(float64); ok && f >= 0 {
			return int(f)
		}
	}
	return -1
}

func boolField(p map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := p[k].(bool); ok && b {
			return true
		}
	}
	return false
}

func intList(p map[string]any, keys ...string) []int {
	for _, k := range keys {
		raw, ok := p[k].([]any)
		if !ok || len(raw) == 0 {
			continue
		}
		out := make([]int, len(raw))
		usable := true
		for i, v := range raw {
			f, ok := v.(float64)
			if !ok {
				usable = false
				break
			}
			out[i] = int(f)
		}
		if usable {
			return out
		}
	}
	return nil
}

func mapField(p map[string]any, keys ...string) map[string]any {
	cur := p
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		cur = next
	}
	return cur
}
