package effects

import "fmt"

// Kind separates identifier namespaces. Dart-name and dart-position
// identifiers are independent namespaces resolved concurrently for a single
// throw, never as alternatives of each other.
type Kind string

const (
	KindEffect             Kind = "effect"
	KindDartName           Kind = "dart_name"
	KindDartNameFallback   Kind = "dart_name_fallback"
	KindDartPosition       Kind = "dart_position"
	KindDartEffect         Kind = "dart_effect"
	KindDartEffectFallback Kind = "dart_effect_fallback"
	KindDartScore          Kind = "dart_score"
	KindCaller             Kind = "caller"
)

// Identifier is one resolved effect or sound key. Lower Priority is more
// specific; consumers may choose to play only the first match per tier.
type Identifier struct {
	Name     string
	Priority int
	Kind     Kind
}

// Payload carries the event-specific values the resolvers look at. Unused
// fields stay zero.
type Payload struct {
	Number      int
	Multiplier  int
	Bed         string
	Points      int
	DartIndex   int // 0-based, -1 when unknown
	RoundScore  int
	Remaining   int
	FinishValue int
	Busted      bool
}

// Resolve maps a canonical event to its ordered LED effect identifiers,
// most specific first. Pure function, no side effects.
func Resolve(event string, p Payload) []Identifier {
	switch event {
	case "throw":
		return resolveThrow(p)
	case "turn_score":
		return resolveTurnScore(p)
	case "game_won", "leg_won", "checkout":
		return resolveWin("game_won", p)
	case "match_won":
		return resolveWin("match_won", p)
	default:
		// Single-identifier events resolve to themselves.
		return []Identifier{{Name: event, Priority: 1, Kind: KindEffect}}
	}
}

func resolveThrow(p Payload) []Identifier {
	var ids []Identifier
	switch {
	case isBullseye(p):
		ids = append(ids, Identifier{Name: "throw_bullseye", Priority: 1, Kind: KindDartName})
	case isBull(p):
		ids = append(ids, Identifier{Name: "throw_bull", Priority: 1, Kind: KindDartName})
	case isMiss(p):
		ids = append(ids, Identifier{Name: "throw_miss", Priority: 1, Kind: KindDartName})
	default:
		// Specific segment (throw_t20) before the generic category
		// (throw_triple).
		ids = append(ids,
			Identifier{Name: fmt.Sprintf("throw_%s%d", multiplierPrefix(p.Multiplier), p.Number), Priority: 1, Kind: KindDartName},
			Identifier{Name: "throw_" + multiplierName(p.Multiplier), Priority: 2, Kind: KindDartName},
		)
	}
	if p.DartIndex >= 0 && p.DartIndex < 3 {
		ids = append(ids, Identifier{Name: fmt.Sprintf("dart_%d", p.DartIndex+1), Priority: 1, Kind: KindDartPosition})
	}
	return ids
}

func resolveTurnScore(p Payload) []Identifier {
	if p.Busted {
		return []Identifier{{Name: "busted", Priority: 1, Kind: KindEffect}}
	}
	ids := []Identifier{{Name: "player_change", Priority: 2, Kind: KindEffect}}
	if p.Points == 26 {
		ids = append(ids, Identifier{Name: "score_26", Priority: 1, Kind: KindEffect})
	}
	ids = append(ids, Identifier{Name: ScoreBand(p.Points), Priority: 1, Kind: KindEffect})
	return ids
}

func resolveWin(name string, p Payload) []Identifier {
	ids := []Identifier{{Name: name, Priority: 1, Kind: KindEffect}}
	if p.FinishValue >= 100 {
		ids = append(ids, Identifier{Name: "high_finish", Priority: 2, Kind: KindEffect})
	} else {
		ids = append(ids, Identifier{Name: "checkout_hit", Priority: 2, Kind: KindEffect})
	}
	return ids
}

// ScoreBand classifies a turn total into its fixed announcement band. Bands
// are contiguous and exhaustive over 0-180, so this is a lookup, not a
// computation.
func ScoreBand(points int) string {
	switch {
	case points >= 180:
		return "score_180"
	case points >= 171:
		return "score_171_179"
	case points >= 150:
		return "score_150_170"
	case points >= 140:
		return "score_140_149"
	case points >= 120:
		return "score_120_139"
	case points >= 100:
		return "score_100_119"
	case points >= 80:
		return "score_80_99"
	case points >= 60:
		return "score_60_79"
	case points >= 40:
		return "score_40_59"
	case points >= 20:
		return "score_20_39"
	case points >= 1:
		return "score_1_19"
	default:
		return "score_0"
	}
}

func isBullseye(p Payload) bool {
	switch p.Bed {
	case "DBull", "D-Bull", "D25":
		return true
	}
	return p.Number == 25 && p.Multiplier == 2
}

func isBull(p Payload) bool {
	switch p.Bed {
	case "SBull", "S-Bull", "S25", "Bull":
		return true
	}
	return p.Number == 25 && p.Multiplier == 1
}

func isMiss(p Payload) bool {
	switch p.Bed {
	case "Miss", "Outside", "Bounce", "M":
		return true
	}
	return p.Points == 0
}

func multiplierPrefix(m int) string {
	switch m {
	case 2:
		return "d"
	case 3:
		return "t"
	default:
		return "s"
	}
}

func multiplierName(m int) string {
	switch m {
	case 2:
		return "double"
	case 3:
		return "triple"
	default:
		return "single"
	}
}
