package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 10000
	defaultWireFormat     = "protobuf"

	defaultRedisAddr = "localhost:6379"

	defaultRoomTimeout           = 10  // 分钟
	defaultRoomCleanupDelay      = 120 // 秒
	defaultShutdownTimeout       = 30  // 分钟
	defaultShutdownCheckInterval = 10  // 秒
	defaultReconnectTimeout      = 300 // 秒

	defaultRateMaxPerSecond    = 10
	defaultRateMaxPerMinute    = 60
	defaultRateBanDuration     = 60 // 秒
	defaultMessageMaxPerSecond = 20
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	WireFormat     string `yaml:"wire_format"` // protobuf / json
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
//
// 对局中的房间没有任何超时：RoomTimeout 只作用于未开局的房间。
type GameConfig struct {
	RoomTimeout           int `yaml:"room_timeout"`            // 未开局房间超时（分钟）
	RoomCleanupDelay      int `yaml:"room_cleanup_delay"`      // 终局房间保留时长（秒）
	ShutdownTimeout       int `yaml:"shutdown_timeout"`        // 优雅关闭最长等待（分钟）
	ShutdownCheckInterval int `yaml:"shutdown_check_interval"` // 关闭期间检查间隔（秒）
	ReconnectTimeout      int `yaml:"reconnect_timeout"`       // 断线保留座位（秒）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	IPWhitelist    []string           `yaml:"ip_whitelist"` // 非空时只允许名单内 IP
	IPBlacklist    []string           `yaml:"ip_blacklist"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 每 IP 连接频率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 每连接消息频率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// RoomTimeoutDuration 返回未开局房间超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// RoomCleanupDelayDuration 返回终局房间保留时长
func (c *GameConfig) RoomCleanupDelayDuration() time.Duration {
	return time.Duration(c.RoomCleanupDelay) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭最长等待
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Minute
}

// ShutdownCheckIntervalDuration 返回关闭期间检查间隔
func (c *GameConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// ReconnectTimeoutDuration 返回断线保留座位时长
func (c *GameConfig) ReconnectTimeoutDuration() time.Duration {
	return time.Duration(c.ReconnectTimeout) * time.Second
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// Load 加载配置文件，环境变量优先于文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Host, defaultHost)
	setDefault(&c.Server.Port, defaultPort)
	setDefault(&c.Server.MaxConnections, defaultMaxConnections)
	setDefault(&c.Server.WireFormat, defaultWireFormat)

	setDefault(&c.Redis.Addr, defaultRedisAddr)

	setDefault(&c.Game.RoomTimeout, defaultRoomTimeout)
	setDefault(&c.Game.RoomCleanupDelay, defaultRoomCleanupDelay)
	setDefault(&c.Game.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&c.Game.ShutdownCheckInterval, defaultShutdownCheckInterval)
	setDefault(&c.Game.ReconnectTimeout, defaultReconnectTimeout)

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	setDefault(&c.Security.RateLimit.MaxPerSecond, defaultRateMaxPerSecond)
	setDefault(&c.Security.RateLimit.MaxPerMinute, defaultRateMaxPerMinute)
	setDefault(&c.Security.RateLimit.BanDuration, defaultRateBanDuration)
	setDefault(&c.Security.MessageLimit.MaxPerSecond, defaultMessageMaxPerSecond)
}

// applyEnv 读取容器部署常用的环境变量
func (c *Config) applyEnv() {
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envInt("SERVER_MAX_CONNECTIONS", &c.Server.MaxConnections)
	envString("SERVER_WIRE_FORMAT", &c.Server.WireFormat)

	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)
	if v, ok := os.LookupEnv("REDIS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Redis.Enabled = b
		}
	}

	envInt("GAME_ROOM_TIMEOUT", &c.Game.RoomTimeout)
	envInt("GAME_RECONNECT_TIMEOUT", &c.Game.ReconnectTimeout)

	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Security.AllowedOrigins = origins
	}
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
