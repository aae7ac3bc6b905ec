package service

import (
	"context"
	"sync"
	"time"

	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

// SessionManager 内存中的会话表，只在页面生命周期内保存状态
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	svc      *Services
	idleTTL  time.Duration
	now      func() time.Time
}

func NewSessionManager(svc *Services, idleTTL time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		svc:      svc,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get 查找会话并刷新活跃时间
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// Create 创建新会话
func (m *SessionManager) Create() *Session {
	s := NewSession(utils.NewSessionID(), m.svc)
	s.touch(m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	utils.Logger.Debug("session created", zap.String("session", s.ID))
	return s
}

// GetOrCreate id 为空或已过期时创建新会话
func (m *SessionManager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep 移除空闲超时的会话并释放其摄像头
func (m *SessionManager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) > m.idleTTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		utils.Logger.Info("idle sessions removed", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run 定期清理，直到 ctx 结束
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll 关闭所有会话
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
