package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dartlink/caller-backend/internal/hub"
	"github.com/dartlink/caller-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Post("/boards", RegisterBoard(h))
	r.Get("/boards", ListBoards(h))
	r.Delete("/boards/{boardID}", RemoveBoard(h))
	r.Post("/boards/{boardID}/frames", IngestFrame(h, log))
	r.Post("/boards/{boardID}/simulate", SimulateEvent(h))
	r.Get("/ws", ws.Handler(h, log))
	return r
}
