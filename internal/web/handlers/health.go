package handlers

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// HealthHandler probes the backing services.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// healthResponse mirrors what operators actually check: each dependency
// up or down, with server versions where available.
type healthResponse struct {
	DBOK           bool    `json:"db_ok"`
	DBVersion      *string `json:"db_version"`
	PostGISOK      bool    `json:"postgis_ok"`
	PostGISVersion *string `json:"postgis_version"`
	RedisOK        bool    `json:"redis_ok"`
}

// GetHealth handles GET /api/health. A missing PostGIS extension or an
// unreachable Redis degrades the report without failing the request.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp healthResponse

	if h.DB != nil {
		var version string
		if err := h.DB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err == nil {
			resp.DBOK = true
			resp.DBVersion = &version
		}
		var postgis string
		if err := h.DB.QueryRowContext(ctx, "SELECT postgis_full_version()").Scan(&postgis); err == nil {
			resp.PostGISOK = true
			resp.PostGISVersion = &postgis
		}
	}

	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err == nil {
			resp.RedisOK = true
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
