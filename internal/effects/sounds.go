package effects

import "fmt"

// ResolveSounds maps a canonical event to the ordered list of caller sound
// keys to play. The frontend resolves keys to files and may honor only the
// first match per priority tier. Pure function.
func ResolveSounds(event string, p Payload) []Identifier {
	switch event {
	case "game_on":
		return caller("caller_game_on", 1)
	case "game_won":
		return append(caller("caller_game_won", 1), Identifier{Name: "caller_ambient_gameshot", Priority: 2, Kind: KindCaller})
	case "match_won":
		return append(caller("caller_match_won", 1), Identifier{Name: "caller_ambient_matchshot", Priority: 2, Kind: KindCaller})
	case "busted":
		return append(caller("caller_busted", 1), Identifier{Name: "caller_ambient_busted", Priority: 2, Kind: KindCaller})
	case "game_ended":
		return caller("caller_game_ended", 1)
	case "player_change":
		return playerChangeSounds(p)
	case "throw":
		return throwSounds(p)
	case "checkout_possible":
		return checkoutSounds(p)
	case "checkout_hit", "high_finish":
		return []Identifier{{Name: "caller_ambient_high_finish", Priority: 2, Kind: KindCaller}}
	case "takeout_start":
		return caller("caller_takeout_start", 1)
	case "takeout_finished":
		return caller("caller_takeout_finished", 1)
	case "board_ready":
		return caller("caller_board_ready", 1)
	default:
		return nil
	}
}

func playerChangeSounds(p Payload) []Identifier {
	var sounds []Identifier
	score := p.RoundScore
	if score >= 0 {
		sounds = append(sounds, Identifier{Name: scoreKey(score), Priority: 1, Kind: KindCaller})
		switch {
		case score >= 180:
			sounds = append(sounds, Identifier{Name: "caller_ambient_180", Priority: 2, Kind: KindCaller})
		case score >= 140:
			sounds = append(sounds, Identifier{Name: "caller_ambient_140_plus", Priority: 2, Kind: KindCaller})
		case score >= 100:
			sounds = append(sounds, Identifier{Name: "caller_ambient_ton_plus", Priority: 2, Kind: KindCaller})
		case score == 26:
			sounds = append(sounds, Identifier{Name: "caller_ambient_score_26", Priority: 2, Kind: KindCaller})
		case score == 0:
			sounds = append(sounds, Identifier{Name: "caller_ambient_score_0", Priority: 2, Kind: KindCaller})
		case score < 20:
			sounds = append(sounds, Identifier{Name: "caller_ambient_low_score", Priority: 2, Kind: KindCaller})
		}
	}
	return append(sounds, Identifier{Name: "caller_player_change", Priority: 3, Kind: KindCaller})
}

func throwSounds(p Payload) []Identifier {
	var fieldKey, effectKey, genericKey string
	switch {
	case isBullseye(p):
		fieldKey, effectKey, genericKey = "caller_bullseye", "caller_effect_bullseye", "caller_double"
	case isBull(p):
		fieldKey, effectKey, genericKey = "caller_bull", "caller_effect_bull", "caller_single"
	case isMiss(p):
		fieldKey, effectKey = "caller_miss", "caller_effect_miss"
	default:
		prefix := multiplierPrefix(p.Multiplier)
		fieldKey = fmt.Sprintf("caller_%s%d", prefix, p.Number)
		effectKey = fmt.Sprintf("caller_effect_%s%d", prefix, p.Number)
		genericKey = "caller_" + multiplierName(p.Multiplier)
	}

	sounds := []Identifier{{Name: fieldKey, Priority: 1, Kind: KindDartName}}
	if genericKey != "" {
		sounds = append(sounds, Identifier{Name: genericKey, Priority: 2, Kind: KindDartNameFallback})
	}
	sounds = append(sounds, Identifier{Name: effectKey, Priority: 1, Kind: KindDartEffect})
	if genericKey != "" {
		sounds = append(sounds, Identifier{Name: "caller_effect_" + multiplierName(p.Multiplier), Priority: 2, Kind: KindDartEffectFallback})
	}
	if p.Points >= 0 {
		// Dart value as a plain number, for per-dart calling mode.
		sounds = append(sounds, Identifier{Name: scoreKey(p.Points), Priority: 1, Kind: KindDartScore})
	}
	return sounds
}

func checkoutSounds(p Payload) []Identifier {
	var sounds []Identifier
	if p.Remaining >= 2 && p.Remaining <= 170 {
		sounds = append(sounds,
			Identifier{Name: "caller_you_require", Priority: 1, Kind: KindCaller},
			Identifier{Name: fmt.Sprintf("caller_checkout_%d", p.Remaining), Priority: 2, Kind: KindCaller},
		)
	}
	return append(sounds, Identifier{Name: "caller_ambient_checkout_possible", Priority: 3, Kind: KindCaller})
}

func scoreKey(score int) string {
	if score > 180 {
		score = 180
	}
	return fmt.Sprintf("caller_score_%d", score)
}

func caller(name string, priority int) []Identifier {
	return []Identifier{{Name: name, Priority: priority, Kind: KindCaller}}
}
