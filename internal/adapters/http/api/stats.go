package api

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

// StatsProvider exposes the dashboard service's runtime counters.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
	since    time.Time
}

// NewStatsHandler creates a stats handler; uptime is counted from now.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, since: time.Now()}
}

// HandleStats returns the provider's counters plus handler uptime.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := make(map[string]interface{})
	for k, v := range h.provider.GetStats() {
		stats[k] = v
	}
	stats["uptimeSeconds"] = int64(time.Since(h.since).Seconds())
	stats["upSince"] = humanize.Time(h.since)
	writeJSON(w, http.StatusOK, stats)
}
