package board

import (
	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/effects"
)

// LogSink is the default delivery sink: it logs resolved effect and sound
// identifiers. Real drivers (LED controllers, chat bots, webhooks) are
// injected in its place by the embedding process.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) EmitCanonicalEvent(boardID, event string, ids []effects.Identifier) {
	s.Log.Info("event",
		zap.String("board", boardID),
		zap.String("event", event),
		zap.Strings("effects", names(ids)))
}

func (s LogSink) PlayCallerSounds(boardID, event string, sounds []effects.Identifier, p effects.Payload) {
	s.Log.Info("caller",
		zap.String("board", boardID),
		zap.String("event", event),
		zap.Strings("sounds", names(sounds)))
}

func names(ids []effects.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}
