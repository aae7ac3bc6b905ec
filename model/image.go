package model

import "image"

// Slot 图片槽位
type Slot string

const (
	SlotPerson  Slot = "person"
	SlotClothes Slot = "clothes"
)

// ParseSlot 解析槽位名称
func ParseSlot(s string) (Slot, bool) {
	switch Slot(s) {
	case SlotPerson, SlotClothes:
		return Slot(s), true
	}
	return "", false
}

// Placeholder 槽位为空时显示的文本
func (s Slot) Placeholder() string {
	if s == SlotClothes {
		return "No clothing uploaded"
	}
	return "No image uploaded"
}

// Source 图片来源
type Source string

const (
	SourceFile   Source = "file"
	SourceCamera Source = "camera"
)

// RasterImage 解码后的图片，创建后不再修改
type RasterImage struct {
	Image  image.Image
	Width  int
	Height int
	Source Source
}

// NewRasterImage 根据解码结果构造 RasterImage
func NewRasterImage(img image.Image, src Source) *RasterImage {
	b := img.Bounds()
	return &RasterImage{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Source: src,
	}
}
