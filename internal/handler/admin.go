package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"metamarket-api/pkg/response"
)

// StatsSource reports backend statistics.
type StatsSource interface {
	GetStats(ctx context.Context) (map[string]interface{}, error)
}

// CacheStats reports cache statistics.
type CacheStats interface {
	Stats(ctx context.Context) map[string]interface{}
}

// SessionCounter reports how many profile sessions are in memory.
type SessionCounter interface {
	Count() int
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	kv        StatsSource
	kvBackend string
	cache     CacheStats
	sessions  SessionCounter
	startTime time.Time
}

// NewAdminHandler creates a new admin handler. cache may be nil.
func NewAdminHandler(kv StatsSource, kvBackend string, cache CacheStats, sessions SessionCounter) *AdminHandler {
	return &AdminHandler{
		kv:        kv,
		kvBackend: kvBackend,
		cache:     cache,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	// System info
	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["kv_backend"] = h.kvBackend
	stats["sessions"] = h.sessions.Count()

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
		"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
		"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
		"heap_alloc_mb":  float64(memStats.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":  float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":         memStats.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	}

	kvStats, err := h.kv.GetStats(ctx)
	if err == nil {
		kvStats["status"] = "connected"
		stats["kv"] = kvStats
	} else {
		stats["kv"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	if h.cache != nil {
		stats["cache"] = h.cache.Stats(ctx)
	} else {
		stats["cache"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Runtime info
	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
