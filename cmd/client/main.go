package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/secret-hitler/internal/client"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/protocol/codec"
	"github.com/palemoky/secret-hitler/internal/sound"
	"github.com/palemoky/secret-hitler/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	wireFormat := flag.String("format", "protobuf", "线路编码 (protobuf / json)")
	soundDir := flag.String("sounds", "sounds", "提示音目录")
	flag.Parse()

	format, err := codec.ParseFormat(*wireFormat)
	if err != nil {
		log.Fatalf("参数错误: %v", err)
	}

	// 界面占用终端，日志写入临时文件
	logPath := filepath.Join(os.TempDir(), "secret-hitler-client.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		logger.SetOutput(f)
		defer func() { _ = f.Close() }()
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	model := ui.NewOnlineModel(client.NewClient(serverURL, format), sound.NewManager(*soundDir))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
