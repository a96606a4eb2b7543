package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/palemoky/secret-hitler/internal/config"
	"github.com/palemoky/secret-hitler/internal/logger"
	"github.com/palemoky/secret-hitler/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	logDir := flag.String("log-dir", "", "日志目录（默认 ~/.secret-hitler）")
	flag.Parse()

	if err := logger.Init(*logDir); err != nil {
		logger.LogWarn("日志文件初始化失败，仅输出到终端: %v", err)
	}
	defer logger.Close()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.LogWarn("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.LogError("创建服务器失败: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.LogInfo("🎭 Secret Hitler 服务器启动中...")
	if err := srv.Run(ctx); err != nil {
		logger.LogError("服务器运行失败: %v", err)
		srv.Shutdown()
		os.Exit(1)
	}

	// 等待对局结束期间再次收到信号则立即关闭
	logger.LogInfo("正在关闭服务器，等待进行中的对局结束...")
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	srv.GracefulShutdown(shutdownCtx, cfg.Game.ShutdownTimeoutDuration())
}
