package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
)

type ControlID string

const (
	ControlSize     ControlID = "size"
	ControlOpacity  ControlID = "opacity"
	ControlPosition ControlID = "position"
)

// Control 滑块与参数字段一一对应
type Control struct {
	ID      ControlID
	Min     int
	Max     int
	Default int
	set     func(*model.CompositeParams, int)
	get     func(model.CompositeParams) int
}

// Parse 解析整数并限制在滑块范围内
func (c *Control) Parse(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidValue, c.ID, raw)
	}
	return min(c.Max, max(c.Min, v)), nil
}

func (c *Control) Apply(p *model.CompositeParams, v int) {
	c.set(p, v)
}

func (c *Control) Value(p model.CompositeParams) int {
	return c.get(p)
}

// ControlRegistry 控件注册表
type ControlRegistry struct {
	controls map[ControlID]*Control
}

func NewControlRegistry(cfg *config.ControlsConfig) *ControlRegistry {
	controls := []*Control{
		{
			ID:      ControlSize,
			Min:     cfg.Size.Min,
			Max:     cfg.Size.Max,
			Default: model.DefaultSize,
			set:     func(p *model.CompositeParams, v int) { p.Size = v },
			get:     func(p model.CompositeParams) int { return p.Size },
		},
		{
			ID:      ControlOpacity,
			Min:     cfg.Opacity.Min,
			Max:     cfg.Opacity.Max,
			Default: model.DefaultOpacity,
			set:     func(p *model.CompositeParams, v int) { p.Opacity = v },
			get:     func(p model.CompositeParams) int { return p.Opacity },
		},
		{
			ID:      ControlPosition,
			Min:     cfg.Position.Min,
			Max:     cfg.Position.Max,
			Default: model.DefaultVerticalOffset,
			set:     func(p *model.CompositeParams, v int) { p.VerticalOffset = v },
			get:     func(p model.CompositeParams) int { return p.VerticalOffset },
		},
	}

	r := &ControlRegistry{controls: make(map[ControlID]*Control, len(controls))}
	for _, c := range controls {
		r.controls[c.ID] = c
	}
	return r
}

func (r *ControlRegistry) Lookup(id string) (*Control, bool) {
	c, ok := r.controls[ControlID(id)]
	return c, ok
}

// Readouts 滑块旁的数值显示
func (r *ControlRegistry) Readouts(p model.CompositeParams) model.Readouts {
	return model.Readouts{
		Size:     r.controls[ControlSize].Value(p),
		Opacity:  r.controls[ControlOpacity].Value(p),
		Position: r.controls[ControlPosition].Value(p),
	}
}
