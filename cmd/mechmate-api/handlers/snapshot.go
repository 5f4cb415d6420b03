package handlers

import (
	"net/http"

	"github.com/Jeyavarman-2005/mechmate/internal/engine"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// SnapshotHandler exposes snapshot lifecycle operations.
type SnapshotHandler struct {
	logger   *observability.Logger
	answerer *engine.Answerer
	snapshot *store.Snapshot
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(logger *observability.Logger, answerer *engine.Answerer, snapshot *store.Snapshot) *SnapshotHandler {
	return &SnapshotHandler{logger: logger, answerer: answerer, snapshot: snapshot}
}

// Invalidate handles POST /v1/snapshot/invalidate. The next question will
// refetch the source and rebuild derived caches.
func (h *SnapshotHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	h.answerer.Invalidate(r.Context())
	h.logger.Info().Msg("Snapshot invalidated")
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}
