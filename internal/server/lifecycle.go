package server

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
)

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		logger.LogInfo("📊 [监控] 在线: %d | 房间: %d (对局中 %d) | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.roomManager.RoomCount(),
			s.roomManager.GetActiveGamesCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接和新房间，进行中的对局不受影响
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	already := s.maintenanceMode
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()
	if already {
		return
	}

	s.Broadcast(codec.MustNewMessage(protocol.MsgMaintenancePush, protocol.MaintenancePayload{Maintenance: true}))
	s.BroadcastToLobby(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance, "👷🏻‍♂️ 维护模式：停止新的房间创建"))

	logger.LogInfo("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 进入维护模式，等待进行中的对局结束（最长 timeout）后关闭
func (s *Server) GracefulShutdown(ctx context.Context, timeout time.Duration) {
	s.EnterMaintenanceMode()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	s.waitForGames(ctx)

	if activeGames := s.roomManager.GetActiveGamesCount(); activeGames > 0 {
		logger.LogWarn("⚠️ 超时，仍有 %d 个房间进行中，强制关闭", activeGames)
	} else {
		delay := s.config.Game.RoomCleanupDelayDuration()
		logger.LogInfo("✅ 所有对局已结束，将在 %v 后关闭服务器", delay)
		s.BroadcastToLobby(codec.NewErrorMessageWithText(protocol.ErrCodeServerMaintenance,
			fmt.Sprintf("🚧 服务器将在 %d 秒后停机维护！", int(delay.Seconds()))))

		// 给刚结束对局的玩家留出查看结果的时间
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
	}

	s.Shutdown()
}

// waitForGames 轮询直到没有进行中的对局或 ctx 结束
func (s *Server) waitForGames(ctx context.Context) {
	ticker := time.NewTicker(s.config.Game.ShutdownCheckIntervalDuration())
	defer ticker.Stop()

	for {
		activeGames := s.roomManager.GetActiveGamesCount()
		if activeGames == 0 {
			return
		}
		logger.LogInfo("⏳ 等待 %d 个房间结束...", activeGames)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown 关闭所有连接和后台组件
func (s *Server) Shutdown() {
	for _, client := range s.snapshotClients() {
		client.Close()
	}

	s.roomManager.Close()
	s.sessionManager.Close()
	s.rateLimiter.Close()

	if s.redis != nil {
		_ = s.redis.Close()
	}

	logger.LogInfo("服务器已关闭")
}
