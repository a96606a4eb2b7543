package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/palemoky/secret-hitler/internal/config"
	"github.com/palemoky/secret-hitler/internal/game/room"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/server/core"
	"github.com/palemoky/secret-hitler/internal/server/handler"
	"github.com/palemoky/secret-hitler/internal/server/session"
	"github.com/palemoky/secret-hitler/internal/server/storage"
)

const (
	statsInterval   = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	format         codec.Format
	redis          *redis.Client // 未启用 Redis 时为 nil
	roomManager    *room.RoomManager
	sessionManager *session.SessionManager
	clients        map[string]*Client
	clientsMu      sync.RWMutex
	handler        *handler.Handler
	upgrader       websocket.Upgrader

	// 安全组件
	rateLimiter    *core.RateLimiter
	originChecker  *core.OriginChecker
	messageLimiter *core.MessageRateLimiter
	ipFilter       *core.IPFilter

	// 连接控制
	maxConnections int
	semaphore      chan struct{}

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// NewServer 创建服务器实例；Redis 只作为镜像和战绩存储，未启用时游戏照常进行
func NewServer(cfg *config.Config) (*Server, error) {
	format, err := codec.ParseFormat(cfg.Server.WireFormat)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		format:  format,
		clients: make(map[string]*Client),
		rateLimiter: core.NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  core.NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: core.NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		ipFilter:       core.NewIPFilter(cfg.Security.IPWhitelist, cfg.Security.IPBlacklist),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 来源在升级前已由 originChecker 校验
		CheckOrigin: func(*http.Request) bool { return true },
	}

	var (
		sessionStore session.Store
		roomDeps     = room.Deps{
			RoomTimeout:  cfg.Game.RoomTimeoutDuration(),
			CleanupDelay: cfg.Game.RoomCleanupDelayDuration(),
		}
		stats handler.StatsReader
	)
	if cfg.Redis.Enabled {
		rdb, err := connectRedis(cfg.Redis)
		if err != nil {
			s.rateLimiter.Close()
			return nil, err
		}
		s.redis = rdb
		store := storage.NewRedisStore(rdb)
		leaderboard := storage.NewLeaderboardManager(rdb)
		sessionStore = store
		roomDeps.Store = store
		roomDeps.Recorder = leaderboard
		stats = leaderboard
	} else {
		logger.LogInfo("ℹ️ 未启用 Redis：不保存快照与战绩")
	}

	s.sessionManager = session.NewSessionManager(cfg.Game.ReconnectTimeoutDuration(), sessionStore)
	s.roomManager = room.NewRoomManager(roomDeps)
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:         s,
		RoomManager:    s.roomManager,
		Leaderboard:    stats,
		SessionManager: s.sessionManager,
	})

	logger.LogInfo("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d, 编码=%s",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections, format)

	return s, nil
}

// connectRedis 连接并探测 Redis
func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	return rdb, nil
}

// Handler 返回 HTTP 路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run 启动服务器，ctx 取消后停止监听
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.LogInfo("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.monitorStats(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
