package service

import (
	"context"
	"fmt"
	"image"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// GocvCamera 通过 OpenCV 打开本机摄像头
type GocvCamera struct {
	device string
}

func NewGocvCamera(cfg *config.CameraConfig) *GocvCamera {
	return &GocvCamera{device: cfg.Device}
}

type openResult struct {
	vc  *gocv.VideoCapture
	err error
}

// Open 打开设备并请求理想分辨率
func (c *GocvCamera) Open(ctx context.Context, hint Resolution) (Stream, error) {
	done := make(chan openResult, 1)
	go func() {
		vc, err := gocv.OpenVideoCapture(c.device)
		if err != nil {
			done <- openResult{err: err}
			return
		}
		if !vc.IsOpened() {
			vc.Close()
			done <- openResult{err: fmt.Errorf("device %s not opened", c.device)}
			return
		}
		if hint.Width > 0 && hint.Height > 0 {
			vc.Set(gocv.VideoCaptureFrameWidth, float64(hint.Width))
			vc.Set(gocv.VideoCaptureFrameHeight, float64(hint.Height))
		}
		done <- openResult{vc: vc}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		utils.Logger.Info("camera opened",
			zap.String("device", c.device),
			zap.Float64("width", res.vc.Get(gocv.VideoCaptureFrameWidth)),
			zap.Float64("height", res.vc.Get(gocv.VideoCaptureFrameHeight)))
		return &gocvStream{vc: res.vc}, nil
	case <-ctx.Done():
		// 设备稍后打开成功也要释放
		go func() {
			if res := <-done; res.vc != nil {
				res.vc.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

type gocvStream struct {
	vc *gocv.VideoCapture
}

func (s *gocvStream) Read() (image.Image, error) {
	mat := gocv.NewMat()
	defer mat.Close()

	if ok := s.vc.Read(&mat); !ok || mat.Empty() {
		return nil, fmt.Errorf("failed to read frame")
	}
	return mat.ToImage()
}

func (s *gocvStream) Close() error {
	return s.vc.Close()
}
