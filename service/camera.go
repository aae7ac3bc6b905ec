package service

import (
	"context"
	"image"
	"sync"
)

// Resolution 请求的理想分辨率，设备可以返回其它尺寸
type Resolution struct {
	Width  int
	Height int
}

// Camera 视频采集设备
type Camera interface {
	Open(ctx context.Context, hint Resolution) (Stream, error)
}

// Stream 已打开的视频流
type Stream interface {
	// Read 读取当前帧，尺寸为设备原生分辨率
	Read() (image.Image, error)
	Close() error
}

// liveCapture 包装一个打开的视频流，保证设备只被释放一次
type liveCapture struct {
	mu       sync.Mutex
	stream   Stream
	once     sync.Once
	done     chan struct{}
	closeErr error
}

func newLiveCapture(s Stream) *liveCapture {
	return &liveCapture{
		stream: s,
		done:   make(chan struct{}),
	}
}

// Frame 读取一帧；预览推流和拍照共用同一个流，读操作串行化
func (l *liveCapture) Frame() (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.done:
		return nil, ErrCameraNotOpen
	default:
	}
	return l.stream.Read()
}

// Release 停止视频流，多次调用只生效一次
func (l *liveCapture) Release() error {
	l.once.Do(func() {
		close(l.done)
		l.mu.Lock()
		l.closeErr = l.stream.Close()
		l.mu.Unlock()
	})
	return l.closeErr
}

func (l *liveCapture) Done() <-chan struct{} {
	return l.done
}
