package client

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger；InitLogger 之前为空操作日志
var Log = zap.NewNop().Sugar()

// 日志文件滚动参数
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 7
)

// InitLogger 把日志写到滚动文件。终端归界面使用，因此不输出到 stdout。
// level 取 debug/info/warn/error；丢弃点都在 debug 级别。
func InitLogger(filePath, level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	})

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, lvl)
	// session 区分同一日志文件里的多次运行
	Log = zap.New(core, zap.AddCaller()).
		With(zap.String("session", uuid.NewString())).
		Sugar()
	return nil
}

// SyncLogger 刷新缓冲
func SyncLogger() {
	_ = Log.Sync()
}
