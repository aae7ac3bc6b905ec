package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/gin-gonic/gin"
)

// Result 返回当前合成结果
func (h *TryOnHandler) Result(c *gin.Context) {
	img, ok := middleware.CurrentSession(c).Result()
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "No try-on result yet",
		})
		return
	}
	respondPNG(c, img, "")
}

// Download 下载 PNG
func (h *TryOnHandler) Download(c *gin.Context) {
	export, err := middleware.CurrentSession(c).Download()
	if err != nil {
		respondExportError(c, err)
		return
	}
	disposition := fmt.Sprintf("attachment; filename=%q", export.Filename)
	respondBytes(c, export.ContentType, export.Data, disposition)
}

// Share 调用系统分享
func (h *TryOnHandler) Share(c *gin.Context) {
	s := middleware.CurrentSession(c)

	err := s.Share(c.Request.Context())
	if errors.Is(err, service.ErrShareUnsupported) {
		c.JSON(http.StatusNotImplemented, model.ErrorResponse{
			Success: false,
			Message: msgShareUnsupported,
		})
		return
	}
	if err != nil {
		respondExportError(c, err)
		return
	}
	respondState(c, s, "Shared")
}

func respondExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNothingToExport) {
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Success: false,
			Message: "Apply a try-on before exporting",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Success: false,
		Message: "Export failed",
		Error:   err.Error(),
	})
}
