package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decoder 负责校验和解码上传的图片
type Decoder struct {
	imagePrefix string
	maxPixels   int64
}

func NewDecoder(cfg *config.UploadConfig) *Decoder {
	prefix := strings.ToLower(cfg.ImagePrefix)
	if prefix == "" {
		prefix = "image/"
	}
	return &Decoder{imagePrefix: prefix, maxPixels: cfg.MaxPixels}
}

// IsImage 根据声明的 Content-Type 判断是否为图片
func (d *Decoder) IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), d.imagePrefix)
}

type decodeResult struct {
	img image.Image
	err error
}

// Decode 异步解码，等待结果或 ctx 取消
func (d *Decoder) Decode(ctx context.Context, contentType string, r io.Reader) (*model.RasterImage, error) {
	if !d.IsImage(contentType) {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}

	done := make(chan decodeResult, 1)
	go func() {
		img, err := d.decode(r)
		done <- decodeResult{img: img, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return model.NewRasterImage(res.img, model.SourceFile), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// decode 先读取图片头检查像素数，再把已读部分拼回去完整解码
func (d *Decoder) decode(r io.Reader) (image.Image, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if d.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > d.maxPixels {
		return nil, fmt.Errorf("%w: %s %dx%d, max %d pixels",
			ErrImageTooLarge, format, cfg.Width, cfg.Height, d.maxPixels)
	}

	img, err := imaging.Decode(io.MultiReader(&head, r), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
