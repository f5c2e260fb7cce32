package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/api/middleware"
	"github.com/dvloznov/finance-assistant/internal/store"
	"github.com/dvloznov/finance-assistant/internal/tabular"
)

// multipartMemory is the part of a multipart upload kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// Ingester replaces the current dataset with a decoded table.
type Ingester interface {
	Ingest(ctx context.Context, table store.RawTable) (int, error)
}

// UploadHandler handles dataset uploads.
type UploadHandler struct {
	ingester Ingester
	maxBytes int64
	log      zerolog.Logger
}

// NewUploadHandler creates a new upload handler. Bodies larger than maxBytes are rejected.
func NewUploadHandler(ingester Ingester, maxBytes int64, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		ingester: ingester,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Upload handles POST /upload/ with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: limit is %d bytes", tooLarge.Limit))
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	table, err := tabular.Decode(header.Filename, file)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("Failed to decode upload")
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.ingester.Ingest(ctx, table)
	if err != nil {
		var missing *store.MissingColumnsError
		if errors.As(err, &missing) {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to ingest upload")
		middleware.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process file: %v", err))
		return
	}

	h.log.Info().
		Str("filename", header.Filename).
		Int64("bytes", header.Size).
		Int("rows", rows).
		Msg("File uploaded successfully")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"rows":    rows,
	})
}
