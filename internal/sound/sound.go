//go:build !ci

// Package sound 终端客户端的提示音
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// Manager 预加载提示音并按事件播放；目录不存在时静默
type Manager struct {
	dir     string
	buffers map[Event]*beep.Buffer
	enabled bool
	mu      sync.RWMutex
}

// NewManager 创建管理器，dir 下放置 <事件名>.mp3 或 <事件名>.wav
func NewManager(dir string) *Manager {
	return &Manager{
		dir:     dir,
		buffers: make(map[Event]*beep.Buffer),
	}
}

// Init 初始化扬声器并加载音频文件
func (m *Manager) Init() error {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	// 较小的缓冲区，降低延迟
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		event := Event(strings.TrimSuffix(name, filepath.Ext(name)))
		if !event.known() || (ext != ".mp3" && ext != ".wav") {
			continue
		}
		// 单个文件损坏不影响其他提示音
		if buf, err := load(filepath.Join(m.dir, name), ext); err == nil {
			m.buffers[event] = buf
		}
	}
	m.enabled = true
	return nil
}

// load 解码音频并重采样为统一格式
func load(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buffer.Append(resampled)
	return buffer, nil
}

// Play 播放事件对应的提示音，未加载时忽略
func (m *Manager) Play(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.enabled {
		return
	}
	if buffer, ok := m.buffers[event]; ok {
		speaker.Play(buffer.Streamer(0, buffer.Len()))
	}
}

// Close 停止播放
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled {
		speaker.Clear()
		m.enabled = false
	}
}
