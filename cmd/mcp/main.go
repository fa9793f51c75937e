package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"casemanager/backend/internal/config"
	"casemanager/backend/internal/logger"
	"casemanager/backend/internal/mcp"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage"
	"casemanager/backend/internal/storage/memory"
	sqlstore "casemanager/backend/internal/storage/sql"
)

// main 启动 stdio MCP 伴生进程。
//
// 进程从 stdin 逐行读取 JSON-RPC 请求，响应写到 stdout；日志全部
// 走 stderr，与宿主（如桌面端 MCP 客户端）的协议通道互不干扰。
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStdioLogger(cfg.Log.Level)
	defer log.Sync()

	var store storage.Store
	if cfg.Database.Type != "" && cfg.Database.DSN != "" {
		store, err = sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			log.Fatal("failed to initialize database storage", zap.Error(err))
		}
		log.Info("using database storage", zap.String("type", cfg.Database.Type))
	} else {
		store = memory.NewStore()
		log.Warn("using memory storage: completions are not shared with the API server")
	}
	defer store.Close()

	completion := service.NewCompletionService(store, log)
	dispatcher := mcp.NewDispatcher(completion, log)
	server := mcp.NewServer(dispatcher, os.Stdin, os.Stdout, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("MCP stdio server started",
		zap.String("server", mcp.ServerName),
		zap.String("version", mcp.ServerVersion))

	if err := server.Run(ctx); err != nil {
		log.Fatal("MCP server error", zap.Error(err))
	}

	log.Info("MCP stdio server exited")
}
