package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"scout_dev_v1_202609/internal/controller"
	"scout_dev_v1_202609/internal/middleware"
	"scout_dev_v1_202609/internal/model"
	"scout_dev_v1_202609/internal/repository"
	"scout_dev_v1_202609/internal/router"
	"scout_dev_v1_202609/internal/service"
	"scout_dev_v1_202609/internal/task"
	"scout_dev_v1_202609/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	stopTasks := initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 5. 启动服务
	startServer(r, stopTasks)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	ScrapeUow *repository.ScrapeUnitOfWork
	User      repository.UserRepository
}

// Services 服务集合
type Services struct {
	Scraper *service.ScraperService
	Product *service.ProductService
	User    *service.UserService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	cfg := database.Config{
		DSN:   getEnv("DATABASE_DSN", ""),
		Debug: getEnv("DB_DEBUG", "") != "",
	}

	return database.InitDB(cfg,
		// Manager
		&model.SysUser{},
		// Catalog
		&model.Product{}, &model.Seller{}, &model.ProductSeller{},
		&model.Recommendation{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg := middleware.DefaultJWTConfig()
		cfg.SecretKey = secret
		middleware.SetJWTConfig(cfg)
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		ScrapeUow: repository.NewScrapeUnitOfWork(db),
		User:      repository.NewUserRepository(db),
	}

	// -------- 业务服务 --------
	scraperSvc := service.NewScraperService(&service.ScraperConfig{
		BaseURL: getEnv("SCRAPER_BASE_URL", "http://localhost:8000"),
	})

	services := &Services{
		Scraper: scraperSvc,
		Product: service.NewProductService(repos.ScrapeUow, scraperSvc),
		User:    service.NewUserService(repos.User),
	}

	// -------- 引导管理员账号 --------
	bootstrapAdmin(services.User, repos.User)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		User:    controller.NewUserController(services.User),
		Product: controller.NewProductController(services.Product),
		Health:  controller.NewHealthController(services.Scraper),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// bootstrapAdmin 首次启动时创建管理员账号
func bootstrapAdmin(userSvc *service.UserService, userRepo repository.UserRepository) {
	username := getEnv("ADMIN_USERNAME", "admin")
	password := getEnv("ADMIN_PASSWORD", "")
	if password == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := userRepo.GetByUsername(ctx, username); err == nil {
		return
	}

	if _, err := userSvc.Register(ctx, username, password, "admin"); err != nil {
		log.Printf("警告: 管理员账号创建失败: %v", err)
		return
	}
	log.Printf("管理员账号 %s 已创建", username)
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务，返回用于优雅关闭的停止函数
func initTasks(deps *Dependencies) func() {
	// 抓取后端健康监控
	healthMonitor := task.NewHealthMonitor(deps.Services.Scraper)
	healthMonitor.Start()

	// 存量商品定时刷新
	rescrapeTask := task.NewRescrapeTask(deps.Services.Product)
	rescrapeTask.Start()

	log.Println("定时任务已启动")

	return func() {
		healthMonitor.Stop()
		rescrapeTask.Stop()
		log.Println("定时任务已停止")
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, stopTasks func()) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 先停定时任务，避免关闭过程中又触发抓取
	stopTasks()

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
