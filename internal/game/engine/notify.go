package engine

import "github.com/palemoky/secret-hitler/internal/protocol"

// Notification 引擎产出的出站消息
type Notification struct {
	To      string // 玩家 ID；空串表示广播给整个房间
	Type    protocol.MessageType
	Payload any
}

// Broadcast 是否发给全房间
func (n Notification) Broadcast() bool {
	return n.To == ""
}

func broadcast(t protocol.MessageType, payload any) Notification {
	return Notification{Type: t, Payload: payload}
}

func direct(to string, t protocol.MessageType, payload any) Notification {
	return Notification{To: to, Type: t, Payload: payload}
}
