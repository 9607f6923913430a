package dto

// PresignedURLRequest represents the request for a direct-to-S3 upload URL
type PresignedURLRequest struct {
	EntityType  string `json:"entityType" binding:"required,oneof=tasks comments projects"`
	FileName    string `json:"fileName" binding:"required,min=1,max=255"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1"`
}

// PresignedURLResponse carries the upload URL and where the file will live
type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	FileURL   string `json:"fileUrl"`
	ExpiresIn int    `json:"expiresIn"`
}
