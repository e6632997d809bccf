package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/middleware"
	"github.com/sxinguo/Review-tool/routes"
	"github.com/sxinguo/Review-tool/services"
	"github.com/sxinguo/Review-tool/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 初始化存储：配置了数据库走远端模式，否则进入游客单机模式
	var remote *store.RemoteStore
	var local *store.LocalStore
	if conf.HasDatabase() {
		if err := config.InitDB(conf); err != nil {
			log.Fatalf("无法初始化数据库: %v", err)
		}
		remote = store.NewRemoteStore(config.DB)

		// Redis仅作报告前置缓存，失败降级为只查库
		if conf.RedisHost != "" {
			if err := config.InitRedis(conf); err != nil {
				config.Logger.Warnw("Redis不可用，报告缓存只走数据库", "error", err)
			}
		}
	} else {
		kv, err := store.NewFileKV(conf.DataDir)
		if err != nil {
			log.Fatalf("无法初始化本地存储: %v", err)
		}
		local = store.NewLocalStore(kv)
		config.Logger.Infow("未配置数据库，进入游客单机模式", "dataDir", conf.DataDir)
	}
	dataService := store.NewDataService(local, remote)

	// 初始化Deepseek客户端，未配置密钥时报告走降级模板
	var deepseekClient *services.DeepseekClient
	if conf.DeepseekAPIKey != "" {
		deepseekClient, err = services.NewDeepseekClient(conf.DeepseekAPIKey, conf.DeepseekAPIEndpoint)
		if err != nil {
			config.Logger.Warnw("Deepseek客户端初始化失败，报告走降级模板", "error", err)
			deepseekClient = nil
		}
	}
	reportService := services.NewReportService(deepseekClient)

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r)

	// 注册路由
	routes.RegisterRoutes(r, conf, dataService, remote, reportService)

	port := conf.ServerPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Printf("启动服务器，监听端口: %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	log.Println("服务器已关闭")
}
