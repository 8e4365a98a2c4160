package types

// DisplayState is one display-overlay push. Kind selects which of the
// optional fields are meaningful:
//
//	throw:        throw_text, points, turn_score, darts_in_turn
//	turn_update:  is_my_turn (absent = unknown), is_local, has_bot,
//	              my_player_index, active_player_index, active_player_name
//	state_update: everything turn_update carries plus remaining and scores
//	match_start:  my_player_index, is_local
type DisplayState struct {
	Kind        string `json:"type"`
	ThrowText   string `json:"throw_text,omitempty"`
	Points      int    `json:"points,omitempty"`
	TurnScore   int    `json:"turn_score,omitempty"`
	DartsInTurn int    `json:"darts_in_turn,omitempty"`
	IsMyTurn    *bool  `json:"is_my_turn,omitempty"`
	IsLocal     bool   `json:"is_local,omitempty"`
	HasBot      bool   `json:"has_bot,omitempty"`
	MySeat      int    `json:"my_player_index"`
	ActiveSeat  int    `json:"active_player_index"`
	ActiveName  string `json:"active_player_name,omitempty"`
	Remaining   *int   `json:"remaining,omitempty"`
	Scores      []int  `json:"scores,omitempty"`
}

// ServerMessage is the websocket envelope pushed to display clients.
type ServerMessage struct {
	Type  string        `json:"type"` // "display_state" | "Error"
	Board string        `json:"board,omitempty"`
	Data  *DisplayState `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
}
