package server

import (
	"net/http"

	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/server/core"
	"github.com/palemoky/secret-hitler/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := core.GetClientIP(r)

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		logger.LogInfo("🔧 维护模式，拒绝新连接: %s", clientIP)
		http.Error(w, "Server is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	// 连接数限制，信号量在连接关闭时释放
	select {
	case s.semaphore <- struct{}{}:
	default:
		logger.LogWarn("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	if !s.ipFilter.IsAllowed(clientIP) {
		release()
		logger.LogWarn("🚫 IP %s 被过滤器拒绝", clientIP)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if !s.originChecker.Check(r) {
		release()
		logger.LogWarn("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	if !s.rateLimiter.Allow(clientIP) {
		release()
		logger.LogWarn("🚫 IP %s 请求过于频繁", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		logger.LogWarn("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = clientIP
	s.registerClient(client)

	sess := s.sessionManager.CreateSession(client.ID)
	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.ID,
		ReconnectToken: sess.ReconnectToken,
	}))

	logger.LogInfo("✅ 连接 %s 已建立 (IP: %s)", client.ID, clientIP)

	go func() {
		defer release()
		client.ReadPump()
	}()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.GetID()] = client
}

// unregisterClient 注销客户端；该 ID 已被其他连接接管时返回 false
func (s *Server) unregisterClient(client *Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	id := client.GetID()
	if s.clients[id] != client {
		return false
	}
	delete(s.clients, id)
	logger.LogInfo("❌ 连接 %s 已断开", id)
	return true
}

// GetClientByID 按玩家 ID 查找在线连接
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

// RegisterClient 以指定 ID 注册连接
func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	c, ok := client.(*Client)
	if !ok {
		return
	}
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[id] = c
}

// UnregisterClient 按 ID 注销连接
func (s *Server) UnregisterClient(id string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, id)
}

// RebindClient 重连成功后由当前连接接管旧 ID，残留的旧连接被关闭
func (s *Server) RebindClient(client types.ClientInterface, playerID string) {
	c, ok := client.(*Client)
	if !ok {
		return
	}

	s.clientsMu.Lock()
	tempID := c.GetID()
	if s.clients[tempID] == c {
		delete(s.clients, tempID)
	}
	stale := s.clients[playerID]
	s.clients[playerID] = c
	c.setID(playerID)
	s.clientsMu.Unlock()

	s.messageLimiter.RemoveClient(tempID)
	if stale != nil && stale != c {
		logger.LogInfo("🔁 玩家 %s 的旧连接被新连接替换", playerID)
		stale.Close()
	}
}
