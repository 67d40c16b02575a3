package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/visitor_management/configs"
	"github.com/visitor_management/internal/handlers"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/routes"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/internal/workflow"
	"github.com/visitor_management/pkg/db"
)

// @title 访客管理系统 API
// @version 1.0
// @description 访客签到工作流、人脸核验计数与到访记录管理接口
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 加载 .env (可选，不存在时继续使用进程环境变量)
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用进程环境变量")
	}

	// 加载应用配置
	configs.LoadConfig()

	// 初始化数据库连接
	db.InitDB()
	defer db.CloseDB()

	gormDB := db.GetDB()

	// 仓储层
	gateRepo := repositories.NewGormGateRepository(gormDB)
	visitorRepo := repositories.NewGormVisitorRepository(gormDB)
	checkInRepo := repositories.NewGormCheckInRepository(gormDB)

	// 服务层
	gateService := services.NewGateService(gateRepo)
	identityService := services.NewIdentityService(visitorRepo, checkInRepo)
	faceService := services.NewFaceVerificationService(visitorRepo)
	checkInService := services.NewCheckInService(checkInRepo, visitorRepo, gateRepo)

	// 工作流引擎
	engine := workflow.NewEngine(
		workflow.NewSessionStore(),
		gateService,
		identityService,
		faceService,
		checkInService,
	)

	// 处理器
	sessionHandler := handlers.NewSessionHandler(engine)
	checkInHandler := handlers.NewCheckInHandler(gateService, identityService, faceService)
	visitorHandler := handlers.NewVisitorHandler(checkInService)
	qrHandler := handlers.NewQRHandler(identityService)
	gateHandler := handlers.NewGateHandler(gateService)

	router := gin.Default()
	routes.SetupRoutes(router, sessionHandler, checkInHandler, visitorHandler, qrHandler, gateHandler)

	addr := ":" + configs.AppConfig.ServerPort
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s...", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	// 优雅停机：等待中断信号后给在途请求留出处理时间
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
