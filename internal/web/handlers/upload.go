package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/celltrail/internal/ingest"
)

// maxUploadBytes caps a single carrier export upload.
const maxUploadBytes = 64 << 20

// Ingestor runs one ingestion pass over an uploaded file.
type Ingestor interface {
	Ingest(ctx context.Context, projectID, targetID, filename string, data []byte) (*ingest.IngestResult, error)
}

// UploadHandler accepts carrier export uploads.
type UploadHandler struct {
	Pipeline Ingestor
}

// uploadResponse wraps the ingestion result for the client.
type uploadResponse struct {
	OK       bool     `json:"ok"`
	Filename string   `json:"filename"`
	Total    int      `json:"total"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Upload handles POST /api/upload: multipart form with project_id,
// target_id and file. Per-row problems come back inside the result;
// only an unreadable or unsupported file is a request error.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	projectID := r.FormValue("project_id")
	targetID := r.FormValue("target_id")
	if projectID == "" || targetID == "" {
		writeError(w, http.StatusBadRequest, "project_id and target_id are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	result, err := h.Pipeline.Ingest(r.Context(), projectID, targetID, header.Filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("import failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		OK:       true,
		Filename: header.Filename,
		Total:    result.Total,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
		Errors:   result.Errors,
	})
}
