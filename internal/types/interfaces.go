package types

import (
	"github.com/palemoky/secret-hitler/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	BroadcastToLobby(msg *protocol.Message)
	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
	// RebindClient 重连成功后让当前连接接管旧的玩家 ID，并关闭该 ID 上残留的旧连接
	RebindClient(client ClientInterface, playerID string)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetName() string
	SetName(name string)
	GetRoom() string
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}
