package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	App       AppConfig       `mapstructure:"app"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	OSS       OSSConfig       `mapstructure:"oss"`
	Push      PushConfig      `mapstructure:"push"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 存储配置，driver 取 postgres 或 mongo
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	Host        string `mapstructure:"host"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	Port        string `mapstructure:"port"`
	SSLMode     string `mapstructure:"sslmode"`
	TimeZone    string `mapstructure:"timezone"`
	LogLevel    string `mapstructure:"log_level"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	MongoURI    string `mapstructure:"mongo_uri"`
	MongoDB     string `mapstructure:"mongo_db"`
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DSN postgres 连接串（golang-migrate 使用 URL 形式）
func (c DatabaseConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Expire        int64  `mapstructure:"expire"`         // access token 有效期（小时）
	RefreshExpire int64  `mapstructure:"refresh_expire"` // refresh token 有效期（小时）
}

type AppConfig struct {
	Env         string        `mapstructure:"env"`
	Debug       bool          `mapstructure:"debug"`
	AdminEmails []string      `mapstructure:"admin_emails"` // 注册时自动授予管理员的邮箱
	EntityLocks bool          `mapstructure:"entity_locks"` // 购物车/订单变更加锁，默认关闭
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// NotifyConfig 订单状态通知任务
type NotifyConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Interval   time.Duration `mapstructure:"interval"`
	Channel    string        `mapstructure:"channel"` // email / push / log
	Workers    int           `mapstructure:"workers"`
	QueueSize  int           `mapstructure:"queue_size"`
	MaxRetry   int           `mapstructure:"max_retry"`
	From       string        `mapstructure:"from"`
	SMTPAddr   string        `mapstructure:"smtp_addr"`
	SMTPHost   string        `mapstructure:"smtp_host"`
	SMTPUser   string        `mapstructure:"smtp_user"`
	SMTPPasswd string        `mapstructure:"smtp_password"`
}

type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
}

type PushConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	AppKey          int64  `mapstructure:"app_key"`
	RegionID        string `mapstructure:"region_id"` // e.g., "cn-hangzhou"
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 存储配置验证
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return errors.New("database configuration is incomplete")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" || c.Database.MongoDB == "" {
			return errors.New("mongo configuration is incomplete")
		}
	default:
		return errors.New("database.driver must be postgres or mongo")
	}

	// Redis 配置验证
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	switch c.Notify.Channel {
	case "", "log", "email", "push":
	default:
		return errors.New("notify.channel must be log, email or push")
	}

	return nil
}

// setDefaults 默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.mongo_db", "ecommerce")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("jwt.refresh_expire", 24*7)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.cache_ttl", 5*time.Minute)
	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("notify.enabled", true)
	v.SetDefault("notify.interval", time.Hour)
	v.SetDefault("notify.channel", "log")
	v.SetDefault("notify.workers", 4)
	v.SetDefault("notify.queue_size", 256)
	v.SetDefault("notify.max_retry", 3)
	v.SetDefault("notify.from", "noreply@yourstore.com")
}

// Load 读取配置文件与环境变量，返回校验后的配置
func Load() (*Config, error) {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "dev" {
		configName = "config." + env
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量，database.host -> DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 手动覆盖，兼容部署脚本里的短变量名
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.MongoURI = uri
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig 加载配置到 GlobalConfig，失败直接退出
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	GlobalConfig = *cfg
	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}

// IsAdminEmail 判断邮箱是否在管理员名单中
func (c AppConfig) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}
