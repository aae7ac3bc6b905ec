package service

import (
	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

// Placement 一次合成的画布尺寸与衣物位置
type Placement struct {
	SurfaceWidth  int
	SurfaceHeight int
	X             float64
	Y             float64
	Width         float64
	Height        float64
	Alpha         float64
}

// Compositor 负责把衣物图叠加到人物图上
type Compositor struct {
	maxWidth    int
	maxHeight   int
	widthRatio  float64
	anchorRatio float64
}

func NewCompositor(cfg *config.CompositorConfig) *Compositor {
	return &Compositor{
		maxWidth:    cfg.MaxWidth,
		maxHeight:   cfg.MaxHeight,
		widthRatio:  cfg.WidthRatio,
		anchorRatio: cfg.AnchorRatio,
	}
}

// FitSurface 按比例缩小到最大尺寸以内，不放大
func (c *Compositor) FitSurface(width, height int) (int, int) {
	w, h := float64(width), float64(height)
	maxW, maxH := float64(c.maxWidth), float64(c.maxHeight)

	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}

	return max(1, int(w)), max(1, int(h))
}

// Layout 计算画布尺寸和衣物的绘制区域
func (c *Compositor) Layout(person, clothes *model.RasterImage, params model.CompositeParams) Placement {
	sw, sh := c.FitSurface(person.Width, person.Height)

	drawWidth := float64(sw) * c.widthRatio * (float64(params.Size) / 100)
	drawHeight := 0.0
	if clothes.Width > 0 {
		drawHeight = drawWidth * float64(clothes.Height) / float64(clothes.Width)
	}

	return Placement{
		SurfaceWidth:  sw,
		SurfaceHeight: sh,
		X:             (float64(sw) - drawWidth) / 2,
		// 垂直偏移不做限制，衣物可以部分或完全移出画布
		Y:      float64(sh)*c.anchorRatio + float64(params.VerticalOffset),
		Width:  drawWidth,
		Height: drawHeight,
		Alpha:  float64(params.Opacity) / 100,
	}
}

// Render 在 surface 上重绘合成结果，任一图片为空时不做任何事
func (c *Compositor) Render(s Surface, person, clothes *model.RasterImage, params model.CompositeParams) (Placement, bool) {
	if person == nil || clothes == nil {
		return Placement{}, false
	}

	p := c.Layout(person, clothes, params)

	s.Resize(p.SurfaceWidth, p.SurfaceHeight)
	s.SetAlpha(1)
	s.DrawImage(person.Image, 0, 0, float64(p.SurfaceWidth), float64(p.SurfaceHeight))

	func() {
		s.SetAlpha(p.Alpha)
		defer s.SetAlpha(1)
		s.DrawImage(clothes.Image, p.X, p.Y, p.Width, p.Height)
	}()

	utils.Logger.Debug("composite rendered",
		zap.Int("surface_width", p.SurfaceWidth),
		zap.Int("surface_height", p.SurfaceHeight),
		zap.Float64("clothes_x", p.X),
		zap.Float64("clothes_y", p.Y),
		zap.Float64("clothes_width", p.Width),
		zap.Float64("clothes_height", p.Height),
		zap.Float64("alpha", p.Alpha))

	return p, true
}
