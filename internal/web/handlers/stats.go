package handlers

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsHandler tracks lightweight usage counters in Redis: a running
// total and a per-day count, with a one-hour per-IP dedup window.
type StatsHandler struct {
	Redis *redis.Client
}

const hitDedupWindow = time.Hour

// statsResponse carries the current counters.
type statsResponse struct {
	OK    bool   `json:"ok"`
	Total int64  `json:"total"`
	Today int64  `json:"today"`
	Date  string `json:"date,omitempty"`
}

func todayKey() string {
	return time.Now().UTC().Format("20060102")
}

// RecordHit handles POST /api/stats/hit. The same IP only counts once
// per hour; repeat hits just read back the current numbers.
func (h *StatsHandler) RecordHit(w http.ResponseWriter, r *http.Request) {
	if h.Redis == nil {
		writeError(w, http.StatusServiceUnavailable, "stats backend not configured")
		return
	}
	ctx := r.Context()

	dedupKey := "stats:seen:" + clientIP(r)
	isNew, err := h.Redis.SetNX(ctx, dedupKey, "1", hitDedupWindow).Result()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stats backend unavailable")
		return
	}

	day := todayKey()
	var total, today int64
	if isNew {
		pipe := h.Redis.Pipeline()
		totalCmd := pipe.Incr(ctx, "stats:total")
		todayCmd := pipe.Incr(ctx, "stats:day:"+day)
		if _, err := pipe.Exec(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "stats backend unavailable")
			return
		}
		total, today = totalCmd.Val(), todayCmd.Val()
	} else {
		total, today, err = h.readCounters(r)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "stats backend unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, statsResponse{OK: true, Total: total, Today: today})
}

// GetStats handles GET /api/stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.Redis == nil {
		writeError(w, http.StatusServiceUnavailable, "stats backend not configured")
		return
	}
	total, today, err := h.readCounters(r)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "stats backend unavailable")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{OK: true, Total: total, Today: today, Date: todayKey()})
}

// readCounters fetches both counters; missing keys read as zero.
func (h *StatsHandler) readCounters(r *http.Request) (total, today int64, err error) {
	ctx := r.Context()
	pipe := h.Redis.Pipeline()
	totalCmd := pipe.Get(ctx, "stats:total")
	todayCmd := pipe.Get(ctx, "stats:day:"+todayKey())
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, err
	}
	total, _ = totalCmd.Int64()
	today, _ = todayCmd.Int64()
	return total, today, nil
}
