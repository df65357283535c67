package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/services"
)

// UploadHandler handles file uploads.
type UploadHandler struct {
	service services.UploadServiceProvider
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service services.UploadServiceProvider) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload stores a single multipart file from the "file" form field and
// returns the stored metadata.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	upload, err := h.service.Store(file, header)
	if err != nil {
		serviceError(w, err)
		return
	}

	log.Info().Str("file", upload.StoredName).Int64("size", upload.Size).Msg("File uploaded")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "File uploaded",
		"file":    upload,
	})
}

// List returns recent upload records.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	uploads, err := h.service.GetUploads(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list uploads")
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}
