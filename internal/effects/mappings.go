package effects

import "fmt"

// Mapping is the configurable side of one effect identifier: a display
// label, a category for the settings UI, and whether the identifier is
// currently enabled.
type Mapping struct {
	Label    string `json:"label"`
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
}

// Defaults returns the built-in mapping table. Per-number segment triggers
// and dart-position triggers ship disabled; everything gameplay-critical is
// on by default.
func Defaults() map[string]Mapping {
	m := map[string]Mapping{
		"game_on":           {Label: "Game on", Category: "game", Enabled: true},
		"game_won":          {Label: "Leg won (gameshot)", Category: "game", Enabled: true},
		"match_won":         {Label: "Match won (matchshot)", Category: "game", Enabled: true},
		"game_ended":        {Label: "Game ended", Category: "game", Enabled: true},
		"busted":            {Label: "Busted", Category: "game", Enabled: true},
		"throw_single":      {Label: "Single (S1-S20)", Category: "single_dart", Enabled: true},
		"throw_double":      {Label: "Double (D1-D20)", Category: "single_dart", Enabled: true},
		"throw_triple":      {Label: "Triple (T1-T20)", Category: "single_dart", Enabled: true},
		"throw_bull":        {Label: "Bull (25)", Category: "single_dart", Enabled: true},
		"throw_bullseye":    {Label: "Bullseye (50)", Category: "single_dart", Enabled: true},
		"throw_miss":        {Label: "Miss / bounce out", Category: "single_dart", Enabled: true},
		"checkout_possible": {Label: "Checkout possible", Category: "checkout", Enabled: true},
		"checkout_hit":      {Label: "Checkout hit", Category: "checkout", Enabled: true},
		"high_finish":       {Label: "High finish (>= 100)", Category: "checkout", Enabled: true},
		"player_change":     {Label: "Player change", Category: "turn", Enabled: true},
		"my_turn":           {Label: "My turn", Category: "turn", Enabled: true},
		"opponent_turn":     {Label: "Opponent turn", Category: "turn", Enabled: true},
		"next_throw":        {Label: "Ready for next throw", Category: "turn", Enabled: true},
		"takeout_start":     {Label: "Takeout started", Category: "takeout", Enabled: false},
		"takeout_finished":  {Label: "Takeout finished", Category: "takeout", Enabled: false},
		"idle":              {Label: "Idle", Category: "ambient", Enabled: true},
	}
	for i := 1; i <= 20; i++ {
		m[fmt.Sprintf("throw_s%d", i)] = Mapping{Label: fmt.Sprintf("Single %d", i), Category: "single_dart_number"}
		m[fmt.Sprintf("throw_d%d", i)] = Mapping{Label: fmt.Sprintf("Double %d", i), Category: "single_dart_number"}
		m[fmt.Sprintf("throw_t%d", i)] = Mapping{Label: fmt.Sprintf("Triple %d", i), Category: "single_dart_number"}
	}
	for i := 1; i <= 3; i++ {
		m[fmt.Sprintf("dart_%d", i)] = Mapping{Label: fmt.Sprintf("Dart %d thrown", i), Category: "dart_position"}
	}
	bands := []string{
		"score_180", "score_171_179", "score_150_170", "score_140_149",
		"score_120_139", "score_100_119", "score_80_99", "score_60_79",
		"score_40_59", "score_20_39", "score_1_19", "score_0", "score_26",
	}
	for _, b := range bands {
		m[b] = Mapping{Label: b, Category: "round_score", Enabled: true}
	}
	return m
}

// Merge overlays saved per-identifier customizations on the defaults.
// Always returns the full set.
func Merge(saved map[string]Mapping) map[string]Mapping {
	m := Defaults()
	for k, v := range saved {
		m[k] = v
	}
	return m
}

// Select applies the per-event dispatch rules to an ordered identifier list:
// for throws the first enabled identifier per namespace wins (dart-name and
// dart-position fire concurrently), for turn scores every enabled identifier
// fires, for everything else only the most specific enabled one.
func Select(event string, ids []Identifier, mappings map[string]Mapping) []Identifier {
	enabled := func(id Identifier) bool {
		m, ok := mappings[id.Name]
		return ok && m.Enabled
	}

	switch event {
	case "throw":
		var out []Identifier
		for _, kind := range []Kind{KindDartName, KindDartPosition} {
			for _, id := range ids {
				if id.Kind == kind && enabled(id) {
					out = append(out, id)
					break
				}
			}
		}
		return out
	case "turn_score":
		var out []Identifier
		for _, id := range ids {
			if enabled(id) {
				out = append(out, id)
			}
		}
		return out
	default:
		for _, id := range ids {
			if enabled(id) {
				return []Identifier{id}
			}
		}
		return nil
	}
}
