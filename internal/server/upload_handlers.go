package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/models"
)

// 10MB is plenty for product images and documents
const maxUploadSize = 10 << 20

// UploadView is the wire representation of a stored file
type UploadView struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}

func uploadView(u *models.Upload) *UploadView {
	return &UploadView{
		ID:          u.ID,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Size:        u.Size,
		URL:         "/uploads/" + filepath.Base(u.StoredPath),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) createUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", "multipart field 'file' is required")
		return
	}

	// Flatten the client-supplied name; it is only used for display and for
	// the stored file's extension
	name := filepath.Base(file.Filename)
	if name == "" || name == "." {
		fail(c, http.StatusBadRequest, "Invalid request data", "file name is required")
		return
	}

	sessionData, _ := GetSessionData(c)

	upload := &models.Upload{
		FileName:    name,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		UploadedBy:  sessionData.UserID,
	}

	// Persist the record first so the stored name carries the ULID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(upload).Error; err != nil {
			return err
		}
		stored := fmt.Sprintf("%s-%s", strings.ToLower(upload.ID), name)
		upload.StoredPath = filepath.Join(s.uploadDir, stored)
		if err := c.SaveUploadedFile(file, upload.StoredPath); err != nil {
			return err
		}
		return tx.Save(upload).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to store upload")
		fail(c, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	s.logger.Info().
		Str("upload_id", upload.ID).
		Str("file_name", name).
		Int64("size", file.Size).
		Str("by", sessionData.UserID).
		Msg("File uploaded")

	respond(c, http.StatusCreated, uploadView(upload))
}

func (s *Server) deleteUpload(c *gin.Context) {
	var upload models.Upload
	if err := s.db.Where("id = ?", c.Param("id")).First(&upload).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find upload")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.db.Delete(&upload).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete upload")
		fail(c, http.StatusInternalServerError, "Failed to delete upload")
		return
	}

	// Best effort: a missing file on disk should not fail the delete
	if upload.StoredPath != "" {
		if err := os.Remove(upload.StoredPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", upload.StoredPath).Msg("Failed to remove stored file")
		}
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}
