package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	msgMissingImages    = "Please upload both a person photo and clothing item."
	msgCameraFailed     = "Unable to access webcam. Please check permissions and try again."
	msgShareUnsupported = "Sharing is not supported on this device. Use the download button instead!"
)

type TryOnHandler struct {
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewTryOnHandler(cfg *config.Config) *TryOnHandler {
	return &TryOnHandler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024 * 256,
		},
	}
}

// Register 注册 API 路由
func (h *TryOnHandler) Register(api *gin.RouterGroup) {
	api.GET("/state", h.State)
	api.POST("/upload/:slot", h.Upload)
	api.GET("/preview/:slot", h.Preview)

	api.POST("/camera/open", h.OpenCamera)
	api.GET("/camera/stream", h.CameraStream)
	api.POST("/camera/capture", h.Capture)
	api.POST("/camera/close", h.CloseCamera)

	api.POST("/apply", h.Apply)
	api.POST("/controls/:id", h.SetControl)
	api.GET("/result", h.Result)
	api.GET("/download", h.Download)
	api.POST("/share", h.Share)
	api.POST("/reset", h.Reset)
}

// State 返回界面状态
func (h *TryOnHandler) State(c *gin.Context) {
	respondState(c, middleware.CurrentSession(c), "")
}

// Upload 处理人物或衣物图片上传
func (h *TryOnHandler) Upload(c *gin.Context) {
	s := middleware.CurrentSession(c)

	slot, ok := model.ParseSlot(c.Param("slot"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("unknown slot %q", c.Param("slot")),
		})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.Logger.Warn("failed to get uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "Please choose an image file",
			Error:   err.Error(),
		})
		return
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("File exceeds the %d MB limit", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		utils.Logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "Failed to read file",
			Error:   err.Error(),
		})
		return
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	err = s.AcquireFile(c.Request.Context(), slot, contentType, f)
	switch {
	case errors.Is(err, service.ErrNotImage):
		// 非图片静默忽略
		utils.Logger.Debug("non-image upload ignored",
			zap.String("slot", string(slot)),
			zap.String("content_type", contentType))
		state := s.State()
		c.JSON(http.StatusOK, model.UploadResponse{Success: true, Accepted: false, Data: &state})
		return
	case errors.Is(err, service.ErrImageTooLarge):
		utils.Logger.Warn("upload exceeds pixel limit",
			zap.String("slot", string(slot)),
			zap.String("filename", file.Filename),
			zap.Error(err))
		c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("Image exceeds the %d megapixel limit", h.cfg.Upload.MaxPixels/1_000_000),
			Error:   err.Error(),
		})
		return
	case err != nil:
		utils.Logger.Warn("failed to decode upload",
			zap.String("slot", string(slot)),
			zap.String("filename", file.Filename),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Message: "Failed to decode image",
			Error:   err.Error(),
		})
		return
	}

	state := s.State()
	c.JSON(http.StatusOK, model.UploadResponse{Success: true, Accepted: true, Data: &state})
}

// Preview 返回槽位缩略图
func (h *TryOnHandler) Preview(c *gin.Context) {
	slot, ok := model.ParseSlot(c.Param("slot"))
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("unknown slot %q", c.Param("slot")),
		})
		return
	}

	thumb, ok := middleware.CurrentSession(c).Preview(slot)
	if !ok {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: slot.Placeholder(),
		})
		return
	}
	respondPNG(c, thumb, "")
}

// Apply 执行试穿合成
func (h *TryOnHandler) Apply(c *gin.Context) {
	s := middleware.CurrentSession(c)

	err := s.Apply(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrMissingImages):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: msgMissingImages,
		})
		return
	case err != nil:
		c.JSON(http.StatusRequestTimeout, model.ErrorResponse{
			Success: false,
			Message: "Try-on was interrupted",
			Error:   err.Error(),
		})
		return
	}
	respondState(c, s, "")
}

// SetControl 处理滑块变化
func (h *TryOnHandler) SetControl(c *gin.Context) {
	s := middleware.CurrentSession(c)

	_, err := s.SetControl(c.Param("id"), c.PostForm("value"))
	switch {
	case errors.Is(err, service.ErrUnknownControl):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("unknown control %q", c.Param("id")),
		})
		return
	case errors.Is(err, service.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "Value must be an integer",
			Error:   err.Error(),
		})
		return
	}
	respondState(c, s, "")
}

// Reset 重置会话
func (h *TryOnHandler) Reset(c *gin.Context) {
	s := middleware.CurrentSession(c)
	s.Reset()
	respondState(c, s, "")
}
