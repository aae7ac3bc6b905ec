package model

const (
	DefaultSize           = 100
	DefaultOpacity        = 80
	DefaultVerticalOffset = 0
)

// CompositeParams 衣物叠加参数
type CompositeParams struct {
	Size           int `json:"size"`            // 衣物宽度百分比
	Opacity        int `json:"opacity"`         // 0-100
	VerticalOffset int `json:"vertical_offset"` // 相对默认锚点的像素偏移
}

// DefaultParams 返回默认参数 100/80/0
func DefaultParams() CompositeParams {
	return CompositeParams{
		Size:           DefaultSize,
		Opacity:        DefaultOpacity,
		VerticalOffset: DefaultVerticalOffset,
	}
}
