package handlers

import (
	"net/http"

	"github.com/agentflow/agentflow-api/internal/cache"
	"github.com/agentflow/agentflow-api/internal/perf"
)

// AdminHandler exposes the ops surface: percentile reports and cache
// introspection. Guarded by APIKeyAuth in the router.
type AdminHandler struct {
	Collector *perf.Collector
	Caches    map[string]*cache.Service
	Resp      *Responder
}

func NewAdminHandler(collector *perf.Collector, caches map[string]*cache.Service, resp *Responder) *AdminHandler {
	return &AdminHandler{Collector: collector, Caches: caches, Resp: resp}
}

func (h *AdminHandler) Performance(w http.ResponseWriter, r *http.Request) {
	h.Resp.JSON(w, http.StatusOK, h.Collector.GenerateReport())
}

func (h *AdminHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := make([]cache.Stats, 0, len(h.Caches))
	for _, c := range h.Caches {
		stats = append(stats, c.Stats())
	}
	h.Resp.JSON(w, http.StatusOK, stats)
}

// FlushCache clears one namespace (?namespace=blog) or all of them.
func (h *AdminHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	namespace := r.URL.Query().Get("namespace")

	flushed := []string{}
	for name, c := range h.Caches {
		if namespace == "" || namespace == name {
			c.Flush()
			flushed = append(flushed, name)
		}
	}
	h.Resp.JSON(w, http.StatusOK, map[string]any{"flushed": flushed})
}
