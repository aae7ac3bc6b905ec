package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// OpenCamera 打开摄像头
func (h *TryOnHandler) OpenCamera(c *gin.Context) {
	s := middleware.CurrentSession(c)

	if err := s.OpenCamera(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Message: msgCameraFailed,
			Error:   err.Error(),
		})
		return
	}
	respondState(c, s, "")
}

// Capture 拍照作为人物图片
func (h *TryOnHandler) Capture(c *gin.Context) {
	s := middleware.CurrentSession(c)

	err := s.CaptureFrame(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrCameraNotOpen):
		c.JSON(http.StatusConflict, model.ErrorResponse{
			Success: false,
			Message: "Camera is not open",
		})
		return
	case err != nil:
		utils.Logger.Error("camera capture failed", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Success: false,
			Message: msgCameraFailed,
			Error:   err.Error(),
		})
		return
	}
	respondState(c, s, "")
}

// CloseCamera 取消拍照并释放摄像头
func (h *TryOnHandler) CloseCamera(c *gin.Context) {
	s := middleware.CurrentSession(c)
	s.CloseCamera()
	respondState(c, s, "")
}

// CameraStream 通过 websocket 推送 JPEG 预览帧，摄像头关闭后结束
func (h *TryOnHandler) CameraStream(c *gin.Context) {
	s := middleware.CurrentSession(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// 读取客户端消息以处理 close 帧
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	interval := h.cfg.Camera.FrameInterval
	if interval <= 0 {
		interval = 66 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frames := 0
	defer func() {
		utils.Logger.Debug("camera stream ended", zap.String("session", s.ID), zap.Int("frames", frames))
	}()

	for {
		select {
		case <-gone:
			return
		case <-ticker.C:
		}

		frame, done, err := s.CameraFrame()
		if errors.Is(err, service.ErrCameraNotOpen) {
			closeStream(conn, "camera closed")
			return
		}
		if err != nil {
			utils.Logger.Warn("failed to read preview frame", zap.Error(err))
			continue
		}

		data, err := service.EncodeJPEG(frame, h.cfg.Camera.JPEGQuality)
		if err != nil {
			utils.Logger.Warn("failed to encode preview frame", zap.Error(err))
			continue
		}

		select {
		case <-done:
			closeStream(conn, "camera closed")
			return
		default:
		}

		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
		frames++
	}
}

func closeStream(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
