package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

// Services 会话共享的无状态组件
type Services struct {
	Compositor *Compositor
	Decoder    *Decoder
	Previews   *PreviewRenderer
	Controls   *ControlRegistry
	Exporter   *Exporter
	Camera     Camera
	CameraHint Resolution
	ApplyDelay time.Duration
	NewSurface func() Surface
}

func NewServices(cfg *config.Config, camera Camera, sharer Sharer) *Services {
	return &Services{
		Compositor: NewCompositor(&cfg.Compositor),
		Decoder:    NewDecoder(&cfg.Upload),
		Previews:   NewPreviewRenderer(&cfg.Preview),
		Controls:   NewControlRegistry(&cfg.Controls),
		Exporter:   NewExporter(&cfg.Export, sharer),
		Camera:     camera,
		CameraHint: Resolution{Width: cfg.Camera.IdealWidth, Height: cfg.Camera.IdealHeight},
		ApplyDelay: cfg.Apply.Delay,
		NewSurface: func() Surface { return NewRGBASurface() },
	}
}

// Session 一个页面会话的全部状态，所有事件在 mu 下串行执行
type Session struct {
	ID string

	svc *Services

	mu       sync.Mutex
	person   *model.RasterImage
	clothes  *model.RasterImage
	previews map[model.Slot]image.Image
	params   model.CompositeParams
	surface  Surface
	capture  *liveCapture

	exportEnabled bool
	resultVisible bool
	pendingApply  int
	lastSeen      time.Time
}

func NewSession(id string, svc *Services) *Session {
	return &Session{
		ID:       id,
		svc:      svc,
		previews: make(map[model.Slot]image.Image, 2),
		params:   model.DefaultParams(),
		surface:  svc.NewSurface(),
		lastSeen: time.Now(),
	}
}

// State 返回当前界面状态
func (s *Session) State() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() model.UIState {
	w, h := s.surface.Size()
	return model.UIState{
		ApplyEnabled:  s.readyLocked(),
		ExportEnabled: s.exportEnabled,
		ResultVisible: s.resultVisible,
		Loading:       s.pendingApply > 0,
		CameraOpen:    s.capture != nil,
		SurfaceWidth:  w,
		SurfaceHeight: h,
		Params:        s.params,
		Readouts:      s.svc.Controls.Readouts(s.params),
		Previews: map[model.Slot]model.PreviewState{
			model.SlotPerson:  s.svc.Previews.State(model.SlotPerson, s.previews[model.SlotPerson]),
			model.SlotClothes: s.svc.Previews.State(model.SlotClothes, s.previews[model.SlotClothes]),
		},
	}
}

func (s *Session) readyLocked() bool {
	return s.person != nil && s.clothes != nil
}

// AcquireFile 解码上传的文件并放入槽位；非图片返回 ErrNotImage 且不改变状态
func (s *Session) AcquireFile(ctx context.Context, slot model.Slot, contentType string, r io.Reader) error {
	if _, ok := model.ParseSlot(string(slot)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	img, err := s.svc.Decoder.Decode(ctx, contentType, r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLocked(slot, img)
	return nil
}

// storeLocked 顺序：保存图片，更新预览，再重新计算可应用状态
func (s *Session) storeLocked(slot model.Slot, img *model.RasterImage) {
	switch slot {
	case model.SlotPerson:
		s.person = img
	case model.SlotClothes:
		s.clothes = img
	}
	s.previews[slot] = s.svc.Previews.Render(img)

	utils.Logger.Info("image acquired",
		zap.String("session", s.ID),
		zap.String("slot", string(slot)),
		zap.String("source", string(img.Source)),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Bool("apply_enabled", s.readyLocked()))
}

// Preview 返回槽位缩略图，无图时 ok 为 false
func (s *Session) Preview(slot model.Slot) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	thumb := s.previews[slot]
	return thumb, thumb != nil
}

// OpenCamera 打开摄像头；失败时状态不变
func (s *Session) OpenCamera(ctx context.Context) error {
	s.mu.Lock()
	if s.capture != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.svc.Camera == nil {
		return fmt.Errorf("%w: no capture device configured", ErrCameraUnavailable)
	}

	stream, err := s.svc.Camera.Open(ctx, s.svc.CameraHint)
	if err != nil {
		utils.Logger.Error("camera open failed", zap.String("session", s.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capture != nil {
		// 并发打开时保留先到的那个
		_ = stream.Close()
		return nil
	}
	s.capture = newLiveCapture(stream)
	utils.Logger.Info("camera capture started", zap.String("session", s.ID))
	return nil
}

// CameraFrame 读取一帧用于实时预览，done 在摄像头关闭时关闭
func (s *Session) CameraFrame() (img image.Image, done <-chan struct{}, err error) {
	s.mu.Lock()
	capture := s.capture
	s.mu.Unlock()

	if capture == nil {
		return nil, nil, ErrCameraNotOpen
	}
	img, err = capture.Frame()
	return img, capture.Done(), err
}

// CaptureFrame 拍照放入人物槽位并关闭摄像头
func (s *Session) CaptureFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return ErrCameraNotOpen
	}

	frame, err := s.capture.Frame()
	if err != nil {
		s.closeCameraLocked()
		return fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
	}

	s.storeLocked(model.SlotPerson, model.NewRasterImage(frame, model.SourceCamera))
	s.closeCameraLocked()
	return nil
}

// CloseCamera 关闭摄像头，未打开时无操作
func (s *Session) CloseCamera() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCameraLocked()
}

func (s *Session) closeCameraLocked() {
	if s.capture == nil {
		return
	}
	if err := s.capture.Release(); err != nil {
		utils.Logger.Warn("failed to release camera", zap.String("session", s.ID), zap.Error(err))
	} else {
		utils.Logger.Info("camera released", zap.String("session", s.ID))
	}
	s.capture = nil
}

// Apply 等待展示用的延迟后执行首次合成
func (s *Session) Apply(ctx context.Context) error {
	s.mu.Lock()
	if !s.readyLocked() {
		s.mu.Unlock()
		return ErrMissingImages
	}
	s.pendingApply++
	s.mu.Unlock()

	var waitErr error
	if s.svc.ApplyDelay > 0 {
		timer := time.NewTimer(s.svc.ApplyDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			waitErr = ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingApply--

	if waitErr != nil {
		return waitErr
	}
	// 等待期间可能被重置
	if !s.readyLocked() {
		return ErrMissingImages
	}

	s.svc.Compositor.Render(s.surface, s.person, s.clothes, s.params)
	s.resultVisible = true
	s.exportEnabled = true

	utils.Logger.Info("try-on applied",
		zap.String("session", s.ID),
		zap.Int("size", s.params.Size),
		zap.Int("opacity", s.params.Opacity),
		zap.Int("vertical_offset", s.params.VerticalOffset))
	return nil
}

// SetControl 处理滑块变化，两张图都在时立即重新合成
func (s *Session) SetControl(id, raw string) (int, error) {
	ctrl, ok := s.svc.Controls.Lookup(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	v, err := ctrl.Parse(raw)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl.Apply(&s.params, v)
	if s.readyLocked() {
		s.svc.Compositor.Render(s.surface, s.person, s.clothes, s.params)
	}
	return v, nil
}

// Result 返回当前画布内容，结果未显示时 ok 为 false
func (s *Session) Result() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.resultVisible {
		return nil, false
	}
	return s.surface.Snapshot(), true
}

// Download 导出 PNG
func (s *Session) Download() (*Export, error) {
	s.mu.Lock()
	if !s.exportEnabled {
		s.mu.Unlock()
		return nil, ErrNothingToExport
	}
	snapshot := s.surface.Snapshot()
	s.mu.Unlock()

	return s.svc.Exporter.Download(snapshot)
}

// Share 分享 PNG
func (s *Session) Share(ctx context.Context) error {
	s.mu.Lock()
	if !s.exportEnabled {
		s.mu.Unlock()
		return ErrNothingToExport
	}
	snapshot := s.surface.Snapshot()
	s.mu.Unlock()

	return s.svc.Exporter.Share(ctx, snapshot)
}

// Reset 恢复初始状态，可重复调用
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.person = nil
	s.clothes = nil
	clear(s.previews)
	s.params = model.DefaultParams()
	// 画布回到未合成时的 0x0
	s.surface.Resize(0, 0)
	s.resultVisible = false
	s.exportEnabled = false
	s.closeCameraLocked()

	utils.Logger.Info("session reset", zap.String("session", s.ID))
}

// Close 释放会话持有的设备
func (s *Session) Close() {
	s.CloseCamera()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
