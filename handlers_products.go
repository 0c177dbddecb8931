package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"storeapi/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// createProductHandler accepts multipart {name, price, size, image}. The
// image is written to disk before the form is validated, mirroring the
// upload-then-validate order of the storage layer; every failure after the
// write releases the files again.
func (s *server) createProductHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, validationError("image file is required"))
		return
	}
	if file.Size > maxImageSize {
		respondError(c, validationError("image too large (max 5MB)"))
		return
	}
	saved, err := s.saveProductImage(c, file)
	if err != nil {
		var ae *apiError
		if errors.As(err, &ae) {
			respondError(c, ae)
			return
		}
		s.log.Error("product image save failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		s.discard(saved)
		respondError(c, validationError(err.Error()))
		return
	}
	product := models.Product{
		Name:  form.Name,
		Price: form.Price,
		Size:  form.Size,
		Image: saved.Image,
		Thumb: saved.Thumb,
	}
	if err := s.db.Create(&product).Error; err != nil {
		s.discard(saved)
		s.log.Error("product create failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProductHandler replaces the catalog fields; the image is optional.
// A newly uploaded image obeys the same cleanup contract as create. The
// previous image file is left on disk (uploads_gc sweeps unreferenced files).
func (s *server) updateProductHandler(c *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, notFound("product not found"))
			return
		}
		respondError(c, errInternal)
		return
	}

	var saved *savedImage
	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			respondError(c, validationError("image too large (max 5MB)"))
			return
		}
		saved, err = s.saveProductImage(c, file)
		if err != nil {
			var ae *apiError
			if errors.As(err, &ae) {
				respondError(c, ae)
				return
			}
			s.log.Error("product image save failed", zap.Error(err))
			respondError(c, errInternal)
			return
		}
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		s.discard(saved)
		respondError(c, validationError(err.Error()))
		return
	}
	product.Name = form.Name
	product.Price = form.Price
	product.Size = form.Size
	if saved != nil {
		product.Image = saved.Image
		product.Thumb = saved.Thumb
	}
	if err := s.db.Save(&product).Error; err != nil {
		s.discard(saved)
		s.log.Error("product update failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *server) deleteProductHandler(c *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, notFound("product not found"))
			return
		}
		respondError(c, errInternal)
		return
	}
	if err := s.db.Delete(&product).Error; err != nil {
		s.log.Error("product delete failed", zap.Uint("id", product.ID), zap.Error(err))
		respondError(c, errInternal)
		return
	}
	// best effort: the row is gone, a leftover file only wastes disk
	for _, p := range []string{product.Image, product.Thumb} {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.FromSlash(p)); err != nil && !os.IsNotExist(err) {
			s.log.Warn("product image remove failed", zap.String("path", p), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

func (s *server) listProductsHandler(c *gin.Context) {
	var products []models.Product
	if err := s.db.Order("created_at desc").Find(&products).Error; err != nil {
		s.log.Error("product list failed", zap.Error(err))
		respondError(c, errInternal)
		return
	}
	for i := range products {
		products[i].Image = absoluteURL(c, products[i].Image)
		if products[i].Thumb != "" {
			products[i].Thumb = absoluteURL(c, products[i].Thumb)
		}
	}
	c.JSON(http.StatusOK, products)
}

func (s *server) getProductHandler(c *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, notFound("product not found"))
			return
		}
		respondError(c, errInternal)
		return
	}
	product.Image = absoluteURL(c, product.Image)
	if product.Thumb != "" {
		product.Thumb = absoluteURL(c, product.Thumb)
	}
	c.JSON(http.StatusOK, product)
}

func absoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/" + path
}
