package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// 环境变量名
const (
	EnvServer    = "MINISPACE_SERVER"
	EnvWidth     = "MINISPACE_WIDTH"
	EnvHeight    = "MINISPACE_HEIGHT"
	EnvTickRate  = "MINISPACE_TICK_RATE"
	EnvMaxRecv   = "MINISPACE_MAX_DATAGRAMS_PER_TICK"
	EnvLogFile   = "MINISPACE_LOG_FILE"
	EnvLogLevel  = "MINISPACE_LOG_LEVEL"
	EnvDebugAddr = "MINISPACE_DEBUG_ADDR"
	EnvStars     = "MINISPACE_STARS"
	EnvStarSeed  = "MINISPACE_STAR_SEED"
)

// Config 客户端配置
type Config struct {
	ServerAddr          string // host:port 走 UDP，ws:// 或 wss:// 走 WebSocket
	Width               int
	Height              int
	TickRate            int // 每秒帧数
	MaxDatagramsPerTick int
	LogFile             string
	LogLevel            string // debug / info / warn / error
	DebugAddr           string // 为空则不开调试接口
	Stars               bool
	StarSeed            int64 // 0 表示按当前时间
}

// Default 默认配置
func Default() Config {
	return Config{
		ServerAddr:          "127.0.0.1:2052",
		Width:               80,
		Height:              50,
		TickRate:            30,
		MaxDatagramsPerTick: 1,
		LogFile:             "minispace.log",
		LogLevel:            "debug",
		Stars:               true,
	}
}

// Load 默认值 → 可选的 dotenv 文件 → 环境变量。
// envFile 为空或不存在都不算错误。
func Load(envFile string) (Config, error) {
	cfg := Default()
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvServer); v != "" {
		cfg.ServerAddr = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDebugAddr); v != "" {
		cfg.DebugAddr = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &cfg.Width},
		{EnvHeight, &cfg.Height},
		{EnvTickRate, &cfg.TickRate},
		{EnvMaxRecv, &cfg.MaxDatagramsPerTick},
	}
	for _, it := range ints {
		v := os.Getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}
	if v := os.Getenv(EnvStars); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvStars, err)
		}
		cfg.Stars = b
	}
	if v := os.Getenv(EnvStarSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvStarSeed, err)
		}
		cfg.StarSeed = n
	}
	return cfg, cfg.Validate()
}

// Validate 检查取值范围
func (c Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address is empty")
	}
	if strings.HasPrefix(c.ServerAddr, "ws://") || strings.HasPrefix(c.ServerAddr, "wss://") {
		u, err := url.Parse(c.ServerAddr)
		if err != nil {
			return fmt.Errorf("server address %q: %w", c.ServerAddr, err)
		}
		if u.Host == "" {
			return fmt.Errorf("server address %q has no host", c.ServerAddr)
		}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid %dx%d must be positive", c.Width, c.Height)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate %d must be positive", c.TickRate)
	}
	if c.MaxDatagramsPerTick <= 0 {
		return fmt.Errorf("max datagrams per tick %d must be positive", c.MaxDatagramsPerTick)
	}
	return nil
}
