package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStoreStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "store stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"store":  s.cfg.Store,
		"reads":  s.stats.Reads.Snapshot(),
		"writes": s.stats.Writes.Snapshot(),
	})
}
