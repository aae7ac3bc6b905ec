package service

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func raster(w, h int) *model.RasterImage {
	return model.NewRasterImage(image.NewNRGBA(image.Rect(0, 0, w, h)), model.SourceFile)
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

type drawCall struct {
	img        image.Image
	x, y, w, h float64
	alpha      float64
}

// recordingSurface 记录每次绘制时的透明度
type recordingSurface struct {
	width, height int
	alpha         float64
	draws         []drawCall
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{alpha: 1}
}

func (s *recordingSurface) Resize(w, h int) {
	s.width, s.height = w, h
	s.draws = nil
}

func (s *recordingSurface) Size() (int, int) { return s.width, s.height }
func (s *recordingSurface) SetAlpha(a float64) { s.alpha = a }
func (s *recordingSurface) Alpha() float64 { return s.alpha }
func (s *recordingSurface) Snapshot() image.Image { return image.NewNRGBA(image.Rect(0, 0, s.width, s.height)) }

func (s *recordingSurface) DrawImage(img image.Image, x, y, w, h float64) {
	s.draws = append(s.draws, drawCall{img: img, x: x, y: y, w: w, h: h, alpha: s.alpha})
}

type fakeStream struct {
	mu      sync.Mutex
	frame   image.Image
	readErr error
	closed  int
}

func (s *fakeStream) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.frame, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeCamera struct {
	stream  *fakeStream
	openErr error
	opened  int
	hint    Resolution
}

func (c *fakeCamera) Open(_ context.Context, hint Resolution) (Stream, error) {
	c.hint = hint
	if c.openErr != nil {
		return nil, c.openErr
	}
	c.opened++
	return c.stream, nil
}

var errPermissionDenied = errors.New("permission denied")

type fakeSharer struct {
	supported bool
	err       error
	shared    []*SharePayload
}

func (s *fakeSharer) CanShare(*SharePayload) bool { return s.supported }

func (s *fakeSharer) Share(_ context.Context, p *SharePayload) error {
	s.shared = append(s.shared, p)
	return s.err
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Apply.Delay = 0
	return cfg
}

func newTestSession(camera Camera, sharer Sharer) *Session {
	svc := NewServices(testConfig(), camera, sharer)
	return NewSession("test", svc)
}
