package service

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const pngContentType = "image/png"

// Export 导出的文件
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EncodePNG 将图片编码为 PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG 用于摄像头预览帧
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Exporter 负责下载和分享合成结果
type Exporter struct {
	cfg    config.ExportConfig
	sharer Sharer
}

func NewExporter(cfg *config.ExportConfig, sharer Sharer) *Exporter {
	return &Exporter{
		cfg:    *cfg,
		sharer: sharer,
	}
}

// Download 生成下载文件
func (e *Exporter) Download(img image.Image) (*Export, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info("result exported",
		zap.String("filename", e.cfg.DownloadFilename),
		zap.Int("bytes", len(data)))

	return &Export{
		Filename:    e.cfg.DownloadFilename,
		ContentType: pngContentType,
		Data:        data,
	}, nil
}

// Share 调用系统分享；不支持时返回 ErrShareUnsupported，分享失败或取消只记录日志
func (e *Exporter) Share(ctx context.Context, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	payload := &SharePayload{
		Filename:    e.cfg.ShareFilename,
		ContentType: pngContentType,
		Title:       e.cfg.ShareTitle,
		Text:        e.cfg.ShareText,
		Data:        data,
	}

	if e.sharer == nil || !e.sharer.CanShare(payload) {
		return ErrShareUnsupported
	}

	if err := e.sharer.Share(ctx, payload); err != nil {
		utils.Logger.Info("share cancelled or failed", zap.Error(err))
		return nil
	}

	utils.Logger.Info("result shared", zap.String("filename", payload.Filename))
	return nil
}
