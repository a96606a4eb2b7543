package room

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/palemoky/secret-hitler/internal/game/engine"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/server/storage"
	"github.com/palemoky/secret-hitler/internal/types"
)

const (
	roomCodeLength   = 4                            // 房间号长度
	roomCodeChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" // 房间号字符集
	roomCodeAttempts = 64                           // 生成房间号的最大尝试次数

	storeTimeout    = 3 * time.Second
	storeQueueDepth = 1024
)

// storeOp 一次 Redis 写入
type storeOp func(ctx context.Context) error

// Snapshotter 房间快照镜像（Redis），只写不读回
type Snapshotter interface {
	SaveRoom(ctx context.Context, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, code string) error
}

// ResultRecorder 战绩记录
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, result storage.GameResult) error
}

// Room 游戏房间：持有引擎状态和在线客户端，所有事件在 mu 下串行执行
type Room struct {
	Code      string    // 房间号
	CreatedAt time.Time // 创建时间

	game       *engine.Game
	clients    map[string]types.ClientInterface // playerID -> 客户端，离线时为 nil
	finishedAt time.Time                        // 进入终局的时间
	recorded   bool                             // 战绩是否已记录

	store    Snapshotter
	recorder ResultRecorder
	enqueue  func(op storeOp)

	mu sync.Mutex
}

// Deps 房间管理器依赖，均可为空
type Deps struct {
	Store        Snapshotter
	Recorder     ResultRecorder
	RoomTimeout  time.Duration     // 未满员房间的存活时间
	CleanupDelay time.Duration     // 已结束房间的保留时间
	NewRand      func() *rand.Rand // 每个房间的随机源，测试时注入固定种子
}

// RoomManager 房间注册表，唯一持有 Room 实例
type RoomManager struct {
	store        Snapshotter
	recorder     ResultRecorder
	roomTimeout  time.Duration
	cleanupDelay time.Duration
	newRand      func() *rand.Rand

	rooms map[string]*Room
	mu    sync.RWMutex

	writes   chan storeOp
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRoomManager 创建房间管理器
func NewRoomManager(deps Deps) *RoomManager {
	rm := &RoomManager{
		store:        deps.Store,
		recorder:     deps.Recorder,
		roomTimeout:  deps.RoomTimeout,
		cleanupDelay: deps.CleanupDelay,
		newRand:      deps.NewRand,
		rooms:        make(map[string]*Room),
		stop:         make(chan struct{}),
	}
	if rm.newRand == nil {
		rm.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}

	// 启动房间清理协程
	go rm.cleanupLoop()
	if rm.store != nil || rm.recorder != nil {
		rm.writes = make(chan storeOp, storeQueueDepth)
		go rm.writeLoop()
	}

	return rm
}

// Close 停止清理协程
func (rm *RoomManager) Close() {
	rm.stopOnce.Do(func() { close(rm.stop) })
}

// enqueue 提交写操作，由单个协程按提交顺序执行；队列满时丢弃
func (rm *RoomManager) enqueue(op storeOp) {
	if rm.writes == nil {
		return
	}
	select {
	case rm.writes <- op:
	default:
		logger.LogWarn("房间写队列已满，丢弃一次同步")
	}
}

func (rm *RoomManager) writeLoop() {
	for {
		select {
		case <-rm.stop:
			return
		case op := <-rm.writes:
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			if err := op(ctx); err != nil {
				logger.LogError("房间数据同步失败: %v", err)
			}
			cancel()
		}
	}
}
