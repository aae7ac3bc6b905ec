package service

import (
	"math"
	"testing"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompositor() *Compositor {
	return NewCompositor(&config.Default().Compositor)
}

func TestFitSurface(t *testing.T) {
	c := newTestCompositor()
	cases := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1600, 1200, 800, 600},
		{400, 300, 400, 300},
		{800, 600, 800, 600},
		{1000, 900, 666, 600},
		{600, 1200, 300, 600},
		{2000, 500, 800, 200},
		{1, 1, 1, 1},
	}
	for _, tc := range cases {
		w, h := c.FitSurface(tc.w, tc.h)
		assert.Equal(t, tc.wantW, w, "width for %dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, h, "height for %dx%d", tc.w, tc.h)
	}
}

func TestFitSurfaceBoundsAndAspect(t *testing.T) {
	c := newTestCompositor()
	for W := 7; W <= 4000; W += 131 {
		for H := 5; H <= 3000; H += 97 {
			w, h := c.FitSurface(W, H)
			require.LessOrEqual(t, w, 800)
			require.LessOrEqual(t, h, 600)
			require.LessOrEqual(t, w, W)
			require.LessOrEqual(t, h, H)

			// 被限制的一边是精确值，另一边截断误差小于 1 像素
			dw := math.Abs(float64(w) - float64(h)*float64(W)/float64(H))
			dh := math.Abs(float64(h) - float64(w)*float64(H)/float64(W))
			assert.True(t, dw < 1 || dh < 1, "aspect drift for %dx%d -> %dx%d", W, H, w, h)
		}
	}
}

func TestLayoutDefaultParams(t *testing.T) {
	c := newTestCompositor()
	p := c.Layout(raster(1600, 1200), raster(400, 200), model.DefaultParams())

	assert.Equal(t, 800, p.SurfaceWidth)
	assert.Equal(t, 600, p.SurfaceHeight)
	assert.InDelta(t, 480, p.Width, 1e-9)
	assert.InDelta(t, 240, p.Height, 1e-9)
	assert.InDelta(t, 160, p.X, 1e-9)
	assert.InDelta(t, 90, p.Y, 1e-9)
	assert.InDelta(t, 0.8, p.Alpha, 1e-9)
}

func TestLayoutHalfSize(t *testing.T) {
	c := newTestCompositor()
	params := model.DefaultParams()
	params.Size = 50
	p := c.Layout(raster(1600, 1200), raster(400, 200), params)

	assert.InDelta(t, 240, p.Width, 1e-9)
	assert.InDelta(t, 120, p.Height, 1e-9)
	assert.InDelta(t, 280, p.X, 1e-9)
	assert.InDelta(t, 90, p.Y, 1e-9)
}

func TestLayoutOffsetIsUnclamped(t *testing.T) {
	c := newTestCompositor()
	params := model.DefaultParams()
	params.VerticalOffset = -5000
	p := c.Layout(raster(1600, 1200), raster(400, 200), params)
	assert.InDelta(t, 90-5000, p.Y, 1e-9)
}

func TestRenderDrawOrderAndAlpha(t *testing.T) {
	c := newTestCompositor()
	s := newRecordingSurface()
	person, clothes := raster(1600, 1200), raster(400, 200)

	params := model.DefaultParams()
	params.Opacity = 40
	_, ok := c.Render(s, person, clothes, params)
	require.True(t, ok)

	require.Len(t, s.draws, 2)
	assert.Equal(t, person.Image, s.draws[0].img)
	assert.Equal(t, drawCall{img: person.Image, x: 0, y: 0, w: 800, h: 600, alpha: 1}, s.draws[0])
	assert.Equal(t, clothes.Image, s.draws[1].img)
	assert.InDelta(t, 0.4, s.draws[1].alpha, 1e-9)
	assert.Equal(t, 1.0, s.Alpha(), "alpha restored after clothing draw")

	// 透明度不会带到下一次合成
	params.Opacity = 100
	c.Render(s, person, clothes, params)
	require.Len(t, s.draws, 2)
	assert.Equal(t, 1.0, s.draws[0].alpha)
	assert.Equal(t, 1.0, s.draws[1].alpha)
}

func TestRenderSkipsWhenImageMissing(t *testing.T) {
	c := newTestCompositor()
	s := newRecordingSurface()

	_, ok := c.Render(s, raster(10, 10), nil, model.DefaultParams())
	assert.False(t, ok)
	_, ok = c.Render(s, nil, raster(10, 10), model.DefaultParams())
	assert.False(t, ok)
	assert.Empty(t, s.draws)
}

func TestRenderPixels(t *testing.T) {
	c := newTestCompositor()
	s := NewRGBASurface()
	person := model.NewRasterImage(solid(1600, 1200, red), model.SourceFile)
	clothes := model.NewRasterImage(solid(400, 200, blue), model.SourceFile)

	params := model.DefaultParams()
	params.Opacity = 40
	c.Render(s, person, clothes, params)

	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	img := s.Snapshot()
	r, _, b, _ := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)

	r, _, b, _ = img.At(400, 200).RGBA()
	assert.InDelta(t, 0.6*0xffff, float64(r), 0x300)
	assert.InDelta(t, 0.4*0xffff, float64(b), 0x300)

	params.Opacity = 100
	c.Render(s, person, clothes, params)
	r, _, b, _ = s.Snapshot().At(400, 200).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestRenderClothingOffSurface(t *testing.T) {
	c := newTestCompositor()
	s := NewRGBASurface()
	person := model.NewRasterImage(solid(100, 100, red), model.SourceFile)
	clothes := model.NewRasterImage(solid(40, 20, blue), model.SourceFile)

	params := model.DefaultParams()
	params.VerticalOffset = 1000
	_, ok := c.Render(s, person, clothes, params)
	require.True(t, ok)

	r, _, b, _ := s.Snapshot().At(50, 50).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)
}
