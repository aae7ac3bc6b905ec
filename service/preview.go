package service

import (
	"image"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/disintegration/imaging"
)

// PreviewRenderer 生成预览缩略图
type PreviewRenderer struct {
	maxWidth  int
	maxHeight int
}

func NewPreviewRenderer(cfg *config.PreviewConfig) *PreviewRenderer {
	return &PreviewRenderer{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
	}
}

// Render 等比缩小到预览框内，小图保持原尺寸
func (p *PreviewRenderer) Render(img *model.RasterImage) image.Image {
	if img == nil {
		return nil
	}
	return imaging.Fit(img.Image, p.maxWidth, p.maxHeight, imaging.Lanczos)
}

// State 返回槽位预览状态，无图时为占位文本
func (p *PreviewRenderer) State(slot model.Slot, thumb image.Image) model.PreviewState {
	if thumb == nil {
		return model.PreviewState{
			Slot:        slot,
			Placeholder: slot.Placeholder(),
		}
	}
	b := thumb.Bounds()
	return model.PreviewState{
		Slot:     slot,
		HasImage: true,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}
}
