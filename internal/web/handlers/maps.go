package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// MapsHandler serves trace points for map display and target-level
// deletion.
type MapsHandler struct {
	DB *sql.DB
}

const (
	defaultLayerLimit = 2000
	maxLayerLimit     = 10000
)

// geoJSONFeature is one located trace point.
type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   geoJSONPoint           `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// GetMapLayers handles GET /api/projects/{project_id}/map-layers.
// Only rows with a geometry are returned, ordered by start time. An
// optional target_id narrows the result; limit is capped at 10000.
func (h *MapsHandler) GetMapLayers(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["project_id"]
	targetID := r.URL.Query().Get("target_id")

	limit := parseIntParam(r.URL.Query().Get("limit"), defaultLayerLimit)
	if limit <= 0 {
		limit = defaultLayerLimit
	}
	if limit > maxLayerLimit {
		limit = maxLayerLimit
	}

	query := `
		SELECT target_id, start_ts, end_ts, cell_id, cell_addr, azimuth, accuracy_m,
		       ST_X(geom) AS lng, ST_Y(geom) AS lat
		FROM raw_traces
		WHERE project_id = $1 AND geom IS NOT NULL`
	args := []interface{}{projectID}
	if targetID != "" {
		query += " AND target_id = $2"
		args = append(args, targetID)
	}
	query += fmt.Sprintf(" ORDER BY start_ts ASC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := h.DB.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	features := []geoJSONFeature{}
	for rows.Next() {
		var (
			tid              string
			startTS, endTS   sql.NullTime
			cellID, cellAddr sql.NullString
			azimuth          sql.NullInt64
			accuracy         int
			lng, lat         float64
		)
		if err := rows.Scan(&tid, &startTS, &endTS, &cellID, &cellAddr, &azimuth, &accuracy, &lng, &lat); err != nil {
			continue
		}
		features = append(features, geoJSONFeature{
			Type:     "Feature",
			Geometry: geoJSONPoint{Type: "Point", Coordinates: [2]float64{lng, lat}},
			Properties: map[string]interface{}{
				"target_id":  tid,
				"start_ts":   nullTimeString(startTS),
				"end_ts":     nullTimeString(endTS),
				"cell_id":    nullString(cellID),
				"cell_addr":  nullString(cellAddr),
				"azimuth":    nullInt(azimuth),
				"accuracy_m": accuracy,
			},
		})
	}

	writeJSON(w, http.StatusOK, geoJSONCollection{Type: "FeatureCollection", Features: features})
}

// DeleteTarget handles DELETE /api/projects/{project_id}/targets/{target_id},
// removing every trace of one target within a project. 404 when nothing
// matched.
func (h *MapsHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID, targetID := vars["project_id"], vars["target_id"]

	res, err := h.DB.ExecContext(r.Context(),
		"DELETE FROM raw_traces WHERE project_id = $1 AND target_id = $2",
		projectID, targetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("delete failed: %v", err))
		return
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("delete failed: %v", err))
		return
	}
	if deleted == 0 {
		writeError(w, http.StatusNotFound, "target not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"deleted":    deleted,
		"project_id": projectID,
		"target_id":  targetID,
	})
}

func nullTimeString(t sql.NullTime) interface{} {
	if !t.Valid {
		return nil
	}
	return t.Time.Format(time.RFC3339)
}

func nullString(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

func nullInt(n sql.NullInt64) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Int64
}
