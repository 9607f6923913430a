package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"project-sync-api/internal/client"
	"project-sync-api/internal/dto"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/response"
)

// MaxUploadSize limits direct uploads to 10MB
const MaxUploadSize = 10 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// UploadHandler issues presigned S3 URLs for task and project images
type UploadHandler struct {
	s3Client    client.S3ClientInterface
	projectRepo repository.ProjectRepository
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(s3Client client.S3ClientInterface, projectRepo repository.ProjectRepository) *UploadHandler {
	return &UploadHandler{
		s3Client:    s3Client,
		projectRepo: projectRepo,
	}
}

// GeneratePresignedURL returns a short-lived URL the client uploads to
// directly, plus the final public file URL to store on the entity.
func (h *UploadHandler) GeneratePresignedURL(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	var req dto.PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	if _, err := h.projectRepo.FindMember(c.Request.Context(), projectID, auth.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Not a member of this project")
			return
		}
		handleServiceError(c, err)
		return
	}

	if req.FileSize > MaxUploadSize {
		response.SendError(c, http.StatusBadRequest, "FILE_TOO_LARGE", "File size exceeds 10MB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedImageExtensions[ext] {
		response.SendError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only image files are allowed")
		return
	}
	if !strings.HasPrefix(req.ContentType, "image/") {
		response.SendError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Content type must be an image")
		return
	}

	uploadURL, fileKey, err := h.s3Client.GeneratePresignedURL(
		c.Request.Context(),
		req.EntityType,
		projectID.String(),
		req.FileName,
		req.ContentType,
	)
	if err != nil {
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to generate presigned URL")
		return
	}

	resp := dto.PresignedURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		FileURL:   h.s3Client.GetFileURL(fileKey),
		ExpiresIn: 300,
	}

	response.SendSuccess(c, http.StatusOK, resp)
}
