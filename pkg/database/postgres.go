package database

import (
	"database/sql"
	"ecommerce_api/internal/pkg/config"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDatabase 初始化数据库连接
func InitDatabase(cfg config.DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	// 配置 GORM
	gormConfig := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel(cfg.LogLevel)),
		PrepareStmt:                              true, // 预编译 SQL 缓存
		TranslateError:                           true, // 唯一约束冲突翻译为 gorm.ErrDuplicatedKey
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}

	// 获取底层 SQL DB 对象以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get underlying sql.DB")
	}

	configureConnectionPool(sqlDB)
	lg.Info("Database connection pool configured", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))

	return db, nil
}

// AutoMigrate 开发环境建表，生产环境使用 cmd/migrate
func AutoMigrate(db *gorm.DB, models ...interface{}) error {
	return db.AutoMigrate(models...)
}

// configureConnectionPool 配置数据库连接池
func configureConnectionPool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(time.Minute * 30)
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
