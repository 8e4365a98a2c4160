package frames

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func frame(channel, topic, data string) Frame {
	return Frame{Channel: channel, Topic: topic, Data: json.RawMessage(data)}
}

func TestNormalize_UnknownAndMalformedFramesAreDropped(t *testing.T) {
	cases := []struct {
		name string
		f    Frame
	}{
		{name: "unknown channel", f: frame("autodarts.users", "u1.events", `{"event":"Started"}`)},
		{name: "unknown topic", f: frame("autodarts.boards", "b1.settings", `{"event":"Started"}`)},
		{name: "non-json payload", f: frame("autodarts.boards", "b1.events", `not json`)},
		{name: "empty payload", f: frame("autodarts.boards", "b1.events", ``)},
		{name: "unknown board event", f: frame("autodarts.boards", "b1.events", `{"event":"Motion detected"}`)},
		{name: "lifecycle without id", f: frame("autodarts.boards", "b1.matches", `{"event":"start"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := Normalize(tc.f)
			require.False(t, ok)
			require.Nil(t, ev)
		})
	}
}

func TestNormalize_BoardSignals(t *testing.T) {
	cases := []struct {
		event string
		want  Signal
	}{
		{event: "Started", want: SignalReady},
		{event: "Stopped", want: SignalStopped},
		{event: "Takeout started", want: SignalTakeoutStarted},
		{event: "Takeout finished", want: SignalTakeoutFinished},
		{event: "Manual reset", want: SignalManualReset},
		{event: "Calibration started", want: SignalCalibStarted},
		{event: "Calibration finished", want: SignalCalibFinished},
	}
	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			ev, ok := Normalize(frame("autodarts.boards", "b1.events", `{"event":"`+tc.event+`"}`))
			require.True(t, ok)
			require.Equal(t, BoardSignal{Kind: tc.want}, ev)
		})
	}
}

func TestNormalize_Throw(t *testing.T) {
	data := `{"event":"Throw detected","throwNumber":2,"throw":{"segment":{"number":20,"multiplier":3,"bed":"Triple","name":"T20"}}}`
	ev, ok := Normalize(frame("autodarts.boards", "b1.events", data))
	require.True(t, ok)

	throw, ok := ev.(Throw)
	require.True(t, ok)
	require.Equal(t, 20, throw.Number)
	require.Equal(t, 3, throw.Multiplier)
	require.Equal(t, 60, throw.Points)
	require.Equal(t, 1, throw.DartIndex)
	require.Equal(t, "T20", throw.Segment)
}

func TestNormalize_ThrowWithoutThrowNumber(t *testing.T) {
	data := `{"event":"Throw detected","throw":{"segment":{"number":5,"multiplier":1}}}`
	ev, ok := Normalize(frame("autodarts.boards", "b1.events", data))
	require.True(t, ok)
	require.Equal(t, -1, ev.(Throw).DartIndex)
}

func TestNormalize_StringWrappedEnvelope(t *testing.T) {
	// Older provider versions deliver data as a string containing JSON.
	wrapped, err := json.Marshal(`{"event":"Takeout finished"}`)
	require.NoError(t, err)

	ev, ok := Normalize(frame("autodarts.boards", "b1.events", string(wrapped)))
	require.True(t, ok)
	require.Equal(t, BoardSignal{Kind: SignalTakeoutFinished}, ev)
}

func TestNormalize_MatchStart(t *testing.T) {
	data := `{
		"event": "start",
		"id": "m-123",
		"hostBoardId": "board-a",
		"players": [
			{"name": "Alice", "boardId": "board-a"},
			{"displayName": "Bob", "board_id": "board-b"},
			{"userName": "Level 8 Bot", "cpuPPR": 45}
		]
	}`
	ev, ok := Normalize(frame("autodarts.boards", "b1.matches", data))
	require.True(t, ok)

	lc, ok := ev.(MatchLifecycle)
	require.True(t, ok)
	require.Equal(t, PhaseStart, lc.Phase)
	require.Equal(t, "m-123", lc.MatchID)
	require.Equal(t, "board-a", lc.HostBoardID)
	require.Len(t, lc.Seats, 3)
	require.Equal(t, Seat{Name: "Alice", BoardID: "board-a"}, lc.Seats[0])
	require.Equal(t, Seat{Name: "Bob", BoardID: "board-b"}, lc.Seats[1])
	require.True(t, lc.Seats[2].HasBotMarker)
}

func TestNormalize_MatchStartCreatorBoardFallback(t *testing.T) {
	data := `{"event":"start","id":"m-1","creatorBoardId":"board-z"}`
	ev, ok := Normalize(frame("autodarts.boards", "b1.matches", data))
	require.True(t, ok)
	require.Equal(t, "board-z", ev.(MatchLifecycle).HostBoardID)
}

func TestNormalize_MatchFinish(t *testing.T) {
	ev, ok := Normalize(frame("autodarts.boards", "b1.matches", `{"event":"finish","id":"m-123"}`))
	require.True(t, ok)
	require.Equal(t, MatchLifecycle{Phase: PhaseFinish, MatchID: "m-123"}, ev)
}

func TestNormalize_StateUpdateFieldFallbacks(t *testing.T) {
	cases := []struct {
		name       string
		data       string
		wantActive int
		wantScores []int
	}{
		{
			name:       "primary spellings",
			data:       `{"player":1,"gameScores":[301,261]}`,
			wantActive: 1,
			wantScores: []int{301, 261},
		},
		{
			name:       "currentPlayer and scores",
			data:       `{"currentPlayer":0,"scores":[501,441]}`,
			wantActive: 0,
			wantScores: []int{501, 441},
		},
		{
			name:       "turn and remainingScores",
			data:       `{"turn":1,"remainingScores":[40,32]}`,
			wantActive: 1,
			wantScores: []int{40, 32},
		},
		{
			name:       "negative seat defers to the next spelling",
			data:       `{"player":-1,"turn":2}`,
			wantActive: 2,
			wantScores: nil,
		},
		{
			name:       "all spellings negative",
			data:       `{"player":-1,"currentPlayer":-1}`,
			wantActive: -1,
			wantScores: nil,
		},
		{
			name:       "everything absent",
			data:       `{}`,
			wantActive: -1,
			wantScores: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := Normalize(frame("autodarts.matches", "m-123.state", tc.data))
			require.True(t, ok)
			st := ev.(StateUpdate)
			require.Equal(t, tc.wantActive, st.ActiveSeat)
			require.Equal(t, tc.wantScores, st.Scores)
		})
	}
}

func TestNormalize_StateUpdateFinishVariants(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		wantGame bool
		wantWin  int
	}{
		{name: "gameFinished", data: `{"gameFinished":true,"gameWinner":1}`, wantGame: true, wantWin: 1},
		{name: "isFinished spelling", data: `{"isFinished":true}`, wantGame: true, wantWin: -1},
		{name: "not finished", data: `{"gameFinished":false}`, wantGame: false, wantWin: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := Normalize(frame("autodarts.matches", "m-123.state", tc.data))
			require.True(t, ok)
			st := ev.(StateUpdate)
			require.Equal(t, tc.wantGame, st.GameFinished)
			require.Equal(t, tc.wantWin, st.Winner)
		})
	}
}

func TestNormalize_StateUpdateSeatsFromParticipants(t *testing.T) {
	data := `{"participants":[{"username":"carol"},{"id":"u-9","board":"board-b"}]}`
	ev, ok := Normalize(frame("autodarts.matches", "m-123.state", data))
	require.True(t, ok)
	st := ev.(StateUpdate)
	require.Len(t, st.Seats, 2)
	require.Equal(t, "carol", st.Seats[0].Name)
	require.Equal(t, "u-9", st.Seats[1].Name)
	require.Equal(t, "board-b", st.Seats[1].BoardID)
}
