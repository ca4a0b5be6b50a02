package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		h.writeJSON(w, r, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStats handles GET /admin/v1/stats.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.kv.Stats()
	h.writeJSON(w, r, http.StatusOK, StatsResponse{
		Entries:    stats.Entries,
		ShardCount: stats.ShardCount,
		Hash:       stats.Hash,
		Version:    buildinfo.Version,
		Shards:     stats.Shards,
	})
}
