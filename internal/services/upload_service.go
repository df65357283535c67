package services

import (
	"database/sql"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/models"
)

// MaxUploadSize is the largest file accepted by the upload endpoint.
const MaxUploadSize = 32 << 20 // 32 MiB

// UploadServiceProvider defines the interface for upload services.
type UploadServiceProvider interface {
	Store(file multipart.File, header *multipart.FileHeader) (models.Upload, error)
	GetUploads(limit int) ([]models.Upload, error)
}

// UploadService stores uploaded files on disk under a server-controlled,
// timestamp-based name and records their metadata.
type UploadService struct {
	db        *sql.DB
	uploadDir string
}

// NewUploadService creates a new UploadService rooted at uploadDir. The
// directory is created if missing; a failure here is logged and surfaces
// again on the first Store call.
func NewUploadService(db *sql.DB, uploadDir string) *UploadService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		log.Error().Err(err).Str("dir", uploadDir).Msg("Could not create upload directory")
	}
	return &UploadService{db: db, uploadDir: uploadDir}
}

// Store writes the file to the upload directory and inserts a metadata row.
func (s *UploadService) Store(file multipart.File, header *multipart.FileHeader) (models.Upload, error) {
	if header == nil || header.Size == 0 {
		return models.Upload{}, fmt.Errorf("%w: empty upload", ErrValidation)
	}
	if header.Size > MaxUploadSize {
		return models.Upload{}, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, int64(MaxUploadSize))
	}

	storedName := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(header.Filename))
	destPath := filepath.Join(s.uploadDir, storedName)

	dest, err := os.Create(destPath)
	if err != nil {
		return models.Upload{}, fmt.Errorf("could not create file: %w", err)
	}
	defer dest.Close()

	size, err := io.Copy(dest, file)
	if err != nil {
		os.Remove(destPath)
		return models.Upload{}, fmt.Errorf("could not write file: %w", err)
	}

	upload := models.Upload{
		ID:           uuid.New().String(),
		OriginalName: header.Filename,
		StoredName:   storedName,
		Path:         destPath,
		Size:         size,
		ContentType:  header.Header.Get("Content-Type"),
		CreatedAt:    time.Now(),
	}

	_, err = s.db.Exec(
		"INSERT INTO uploads (id, original_name, stored_name, size, content_type, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		upload.ID, upload.OriginalName, upload.StoredName, upload.Size, upload.ContentType, upload.CreatedAt,
	)
	if err != nil {
		os.Remove(destPath)
		return models.Upload{}, err
	}
	return upload, nil
}

// GetUploads retrieves the most recent upload records.
func (s *UploadService) GetUploads(limit int) ([]models.Upload, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT id, original_name, stored_name, size, content_type, created_at FROM uploads ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []models.Upload
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.OriginalName, &u.StoredName, &u.Size, &u.ContentType, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// sanitizeFilename strips any path components and characters that could
// escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}
