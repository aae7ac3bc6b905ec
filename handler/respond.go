package handler

import (
	"image"
	"net/http"

	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondState(c *gin.Context, s *service.Session, message string) {
	state := s.State()
	c.JSON(http.StatusOK, model.StateResponse{
		Success: true,
		Message: message,
		Data:    &state,
	})
}

// respondPNG 输出 PNG，支持 If-None-Match
func respondPNG(c *gin.Context, img image.Image, disposition string) {
	data, err := service.EncodePNG(img)
	if err != nil {
		utils.Logger.Error("failed to encode png", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "Failed to encode image",
			Error:   err.Error(),
		})
		return
	}
	respondBytes(c, "image/png", data, disposition)
}

func respondBytes(c *gin.Context, contentType string, data []byte, disposition string) {
	etag := utils.ETag(data)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if disposition != "" {
		c.Header("Content-Disposition", disposition)
	}
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
