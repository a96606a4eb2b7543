package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/secret-hitler/internal/protocol"
)

// Format 线路编码格式
type Format string

const (
	// FormatProtobuf 二进制帧：信封为 google.protobuf.Struct
	FormatProtobuf Format = "protobuf"
	// FormatJSON 文本帧：直接 JSON
	FormatJSON Format = "json"
)

const (
	fieldType    = "type"
	fieldPayload = "payload"
)

// ErrMissingType 信封缺少 type 字段
var ErrMissingType = errors.New("codec: message type missing")

// ParseFormat 解析配置中的格式名，空串默认 protobuf
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatProtobuf:
		return FormatProtobuf, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("codec: unknown wire format %q", s)
}

// NewMessage 创建一个新消息，payload 以 JSON 保存
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := GetMessage()
	msg.Type = msgType

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 按格式编码消息
func Encode(m *protocol.Message, format Format) ([]byte, error) {
	if format == FormatJSON {
		return encodeJSON(m)
	}

	env := getEnvelope()
	defer putEnvelope(env)

	env.Fields = map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(m.Type)),
	}
	if len(m.Payload) > 0 {
		v := &structpb.Value{}
		if err := protojson.Unmarshal(m.Payload, v); err != nil {
			return nil, fmt.Errorf("codec: encode payload of %s: %w", m.Type, err)
		}
		env.Fields[fieldPayload] = v
	}
	return proto.Marshal(env)
}

// encodeJSON 借池化缓冲编码，返回的切片是独立副本
func encodeJSON(m *protocol.Message) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Decode 按格式解码消息
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func Decode(data []byte, format Format) (*protocol.Message, error) {
	if format == FormatJSON {
		msg := GetMessage()
		if err := json.Unmarshal(data, msg); err != nil {
			PutMessage(msg)
			return nil, err
		}
		if msg.Type == "" {
			PutMessage(msg)
			return nil, ErrMissingType
		}
		return msg, nil
	}

	env := getEnvelope()
	defer putEnvelope(env)

	if err := proto.Unmarshal(data, env); err != nil {
		return nil, err
	}
	t := env.GetFields()[fieldType].GetStringValue()
	if t == "" {
		return nil, ErrMissingType
	}

	msg := GetMessage()
	msg.Type = protocol.MessageType(t)
	if v, ok := env.GetFields()[fieldPayload]; ok {
		payload, err := protojson.Marshal(v)
		if err != nil {
			PutMessage(msg)
			return nil, err
		}
		msg.Payload = payload
	}
	return msg, nil
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	msg, _ := NewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
	return msg
}
