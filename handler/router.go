package handler

import (
	"path/filepath"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/gin-gonic/gin"
)

// NewRouter 创建路由，页面和 API 都挂在会话中间件之后
func NewRouter(cfg *config.Config, manager *service.SessionManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.MaxMultipartMemory = cfg.Upload.MaxSize

	// 静态文件服务
	r.Static("/static", cfg.Server.StaticDir)

	sessions := r.Group("/", middleware.Session(manager, cfg.Session.CookieName))
	sessions.StaticFile("/", filepath.Join(cfg.Server.StaticDir, "index.html"))

	// API路由
	api := sessions.Group("/api/v1")
	NewTryOnHandler(cfg).Register(api)

	return r
}
