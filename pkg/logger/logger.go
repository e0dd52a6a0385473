package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，Init 之前为 Nop，测试中无需初始化
var Log = zap.NewNop()

// Init 根据运行环境初始化 zap
func Init(env string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	Log = l
	return l, nil
}

// Sync 刷新缓冲区，退出前调用
func Sync() {
	_ = Log.Sync()
}
