package handlers

import (
	"net/http"

	"github.com/AnshRaj112/inkwell-backend/internal/middleware"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/internal/services"
)

// maxUploadBytes limits image uploads to 10MB.
const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

type UploadHandler struct {
	uploader services.ImageUploader
}

func NewUploadHandler(uploader services.ImageUploader) *UploadHandler {
	if uploader == nil {
		uploader = services.UnavailableUploader{}
	}
	return &UploadHandler{uploader: uploader}
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, r, models.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeServiceError(w, r, &models.ValidationError{Field: "file", Message: "file must be a multipart upload of at most 10MB"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeServiceError(w, r, &models.ValidationError{Field: "file", Message: "no file provided"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		writeServiceError(w, r, &models.ValidationError{Field: "file", Message: "file must be at most 10MB"})
		return
	}

	// The content type is sniffed from the bytes.
	sniff := make([]byte, 512)
	n, _ := file.Read(sniff)
	if !allowedImageTypes[http.DetectContentType(sniff[:n])] {
		writeServiceError(w, r, &models.ValidationError{Field: "file", Message: "only JPEG, PNG, GIF and WebP images are allowed"})
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		writeServiceError(w, r, err)
		return
	}

	url, err := h.uploader.UploadImage(r.Context(), user.ID.Hex(), file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
