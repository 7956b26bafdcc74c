package stubapi

import (
	"fmt"
	"io"
	"net/http"

	"go-hris-admin/internal/shared/response"

	employeeerrors "go-hris-admin/internal/employee/errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadEmployeeImage accepts a multipart "file" part. The type is sniffed
// from the content; the stored name is a fresh uuid plus the detected
// extension.
func (h *Handler) UploadEmployeeImage(c *gin.Context) {
	id, err := parseID(c, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 {
		h.writeError(c, employeeerrors.ErrEmptyFile)
		return
	}
	if fh.Size > h.maxUpload {
		h.writeError(c, employeeerrors.ErrUploadTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.writeError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		h.writeError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	mt := mimetype.Detect(content)
	if !allowedImageTypes[mt.String()] {
		h.writeError(c, employeeerrors.ErrUnsupportedImageType)
		return
	}

	filename := uuid.NewString() + mt.Extension()
	if err := h.store.SetEmployeeImage(id, filename, storedImage{ContentType: mt.String(), Content: content}); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, filename, "Image uploaded successfully", nil)
}

func (h *Handler) RemoveEmployeeImage(c *gin.Context) {
	id, err := parseID(c, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.RemoveEmployeeImage(id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Image removed successfully", nil)
}

func (h *Handler) DownloadImage(c *gin.Context) {
	filename := c.Param("filename")
	img, ok := h.store.Image(filename)
	if !ok {
		h.writeError(c, employeeerrors.ErrImageNotFound)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, img.ContentType, img.Content)
}
