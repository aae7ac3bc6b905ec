package service

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Surface 二维绘制画布
type Surface interface {
	// Resize 调整尺寸并丢弃原有内容
	Resize(width, height int)
	Size() (width, height int)
	// SetAlpha 设置后续绘制的全局透明度
	SetAlpha(alpha float64)
	Alpha() float64
	// DrawImage 将 img 缩放绘制到 (x, y, w, h)，超出画布的部分被裁剪
	DrawImage(img image.Image, x, y, w, h float64)
	// Snapshot 返回当前像素内容的副本
	Snapshot() image.Image
}

// RGBASurface 基于 image.RGBA 的画布实现
type RGBASurface struct {
	img    *image.RGBA
	alpha  float64
	scaler draw.Scaler
}

func NewRGBASurface() *RGBASurface {
	return &RGBASurface{
		img:    image.NewRGBA(image.Rectangle{}),
		alpha:  1,
		scaler: draw.ApproxBiLinear,
	}
}

func (s *RGBASurface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.alpha = 1
}

func (s *RGBASurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *RGBASurface) SetAlpha(alpha float64) {
	if math.IsNaN(alpha) {
		return
	}
	s.alpha = math.Max(0, math.Min(1, alpha))
}

func (s *RGBASurface) Alpha() float64 {
	return s.alpha
}

func (s *RGBASurface) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || s.alpha == 0 {
		return
	}
	// 不做规范化：宽或高为负时 Empty() 为真，什么都不画
	dr := image.Rectangle{
		Min: image.Pt(int(math.Round(x)), int(math.Round(y))),
		Max: image.Pt(int(math.Round(x+w)), int(math.Round(y+h))),
	}
	if dr.Empty() || !dr.Overlaps(s.img.Bounds()) {
		return
	}

	var opts *draw.Options
	if s.alpha < 1 {
		opts = &draw.Options{
			SrcMask: image.NewUniform(color.Alpha16{A: uint16(s.alpha * 0xffff)}),
		}
	}
	s.scaler.Scale(s.img, dr, img, img.Bounds(), draw.Over, opts)
}

func (s *RGBASurface) Snapshot() image.Image {
	return imaging.Clone(s.img)
}
