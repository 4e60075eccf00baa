package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"staticd/internal/config"
)

// HealthResponse は /health の応答
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServerInfo はファイルサーバーの待ち受け情報
type ServerInfo struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Root     string `json:"root"`
	MaxConns int    `json:"max_conns"`
}

// StatusResponse は /api/status の応答
type StatusResponse struct {
	Status    string        `json:"status"`
	Server    ServerInfo    `json:"server"`
	Stats     StatsSnapshot `json:"stats"`
	Timestamp time.Time     `json:"timestamp"`
}

// AdminServer は管理用HTTPエンドポイントを提供する
type AdminServer struct {
	config     *config.Config
	stats      *Stats
	log        zerolog.Logger
	httpServer *http.Server
}

// NewAdminServer は新しいAdminServerを作成する
func NewAdminServer(cfg *config.Config, stats *Stats, log zerolog.Logger) *AdminServer {
	a := &AdminServer{
		config: cfg,
		stats:  stats,
		log:    log,
	}
	a.httpServer = &http.Server{
		Addr:         cfg.AdminAddress(),
		Handler:      a.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return a
}

// Router はGinのルーティングを設定したハンドラを返す
func (a *AdminServer) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), a.requestLogger())

	router.GET("/health", a.HealthCheck)
	router.GET("/api/status", a.GetStatus)

	return router
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (a *AdminServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はサーバー状態取得エンドポイントの実装
func (a *AdminServer) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host:     a.config.Server.Host,
			Port:     a.config.Server.Port,
			Root:     a.config.Server.Root,
			MaxConns: a.config.Server.MaxConns,
		},
		Stats:     a.stats.Snapshot(),
		Timestamp: time.Now(),
	})
}

func (a *AdminServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("管理エンドポイント")
	}
}

// Start は管理エンドポイントを起動する (Shutdown まで戻らない)
func (a *AdminServer) Start() error {
	a.log.Info().Str("addr", a.config.AdminAddress()).Msg("管理エンドポイントを起動しています")
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("管理エンドポイントの起動に失敗: %w", err)
	}
	return nil
}

// Shutdown は管理エンドポイントをグレースフルに停止する
func (a *AdminServer) Shutdown(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}
