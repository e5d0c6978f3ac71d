package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 连接配置 ====================

// Config 商品库连接配置
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Debug           bool // 打印全量 SQL
}

// withDefaults 填充缺省值
// 抓取入库是低频写入场景，连接池默认给得比较保守
func (c Config) withDefaults() Config {
	if c.DSN == "" {
		c.DSN = "host=localhost user=scout password=scout dbname=scout port=5432 sslmode=disable"
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	return c
}

// logMode Debug 模式打印全量 SQL，否则只打慢查询和错误
func (c Config) logMode() logger.LogLevel {
	if c.Debug {
		return logger.Info
	}
	return logger.Warn
}

// ==================== 初始化 ====================

// InitDB 建立商品库连接并迁移给定的模型
// models: 需要自动建表/迁移的结构体指针
func InitDB(cfg Config, models ...interface{}) *gorm.DB {
	cfg = cfg.withDefaults()

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.logMode()),
	})
	if err != nil {
		log.Fatalf("商品库连接失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	log.Println("商品库连接成功")

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			log.Fatalf("自动建表出错: %v", err)
		}
	}

	return db
}
