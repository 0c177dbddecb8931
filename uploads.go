package main

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 * 1024 * 1024

const thumbWidth = 320

// savedImage tracks files written for one request so failure paths can
// release them. The uploads component must never leave orphans behind when
// validation or persistence fails downstream.
type savedImage struct {
	Image string
	Thumb string
}

// saveProductImage writes the uploaded file under the configured upload dir
// with a generated name, checks it decodes as an image, and renders a
// thumbnail next to it. On any failure it removes whatever it wrote.
func (s *server) saveProductImage(c *gin.Context, file *multipart.FileHeader) (*savedImage, error) {
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		return nil, validationError("image must have a file extension")
	}
	name := uuid.New().String() + ext
	imagePath := filepath.Join(s.cfg.UploadDir, name)
	thumbPath := filepath.Join(s.cfg.UploadDir, "thumbs", name)

	if err := os.MkdirAll(filepath.Join(s.cfg.UploadDir, "thumbs"), 0755); err != nil {
		return nil, err
	}
	if err := c.SaveUploadedFile(file, imagePath); err != nil {
		return nil, err
	}
	img, err := imaging.Open(imagePath)
	if err != nil {
		_ = os.Remove(imagePath)
		return nil, validationError("uploaded file is not a valid image")
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		_ = os.Remove(imagePath)
		return nil, err
	}
	return &savedImage{
		Image: filepath.ToSlash(imagePath),
		Thumb: filepath.ToSlash(thumbPath),
	}, nil
}

// discard removes the files written for this request. Used on every failure
// after the image hit disk.
func (s *server) discard(saved *savedImage) {
	if saved == nil {
		return
	}
	for _, p := range []string{saved.Image, saved.Thumb} {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.FromSlash(p)); err != nil && !os.IsNotExist(err) {
			s.log.Warn("upload cleanup failed", zap.String("path", p), zap.Error(err))
		}
	}
}
