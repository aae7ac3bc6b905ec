package middleware

import (
	"net/http"

	"github.com/TIANLI0/TryOnKit/service"
	"github.com/gin-gonic/gin"
)

const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
)

// Session 根据 cookie 取得或创建会话
func Session(manager *service.SessionManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		s, created := manager.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, s.ID, 0, "/", "", false, true)
		}

		c.Set(SessionKey, s)
		c.Set(SessionIDKey, s.ID)
		c.Next()
	}
}

// CurrentSession 取出当前请求的会话
func CurrentSession(c *gin.Context) *service.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*service.Session)
	return s
}
