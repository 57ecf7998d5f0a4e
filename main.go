package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"minispace/client"
	"minispace/config"
	"minispace/render"
	"minispace/world"
)

// minispace 入口：连接服务端，初始化星空与本地玩家，运行帧循环
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var envFile string
	flag.StringVar(&envFile, "env", ".env", "optional dotenv file")
	// 先加载 .env 与环境变量，再让命令行覆盖
	cfg, err := config.Load(envFileFromArgs(os.Args[1:], ".env"))
	if err != nil {
		return err
	}
	flag.StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "server address, host:port (udp) or ws://host/path")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "grid width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "grid height")
	flag.IntVar(&cfg.TickRate, "tps", cfg.TickRate, "ticks per second")
	flag.IntVar(&cfg.MaxDatagramsPerTick, "max-recv", cfg.MaxDatagramsPerTick, "datagrams applied per tick")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.DebugAddr, "debug-addr", cfg.DebugAddr, "debug http listen address, e.g. :6060")
	flag.BoolVar(&cfg.Stars, "stars", cfg.Stars, "draw the star field")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 使用第三方 zap 日志库写入文件（带滚动），终端留给界面
	if err := client.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}
	defer client.SyncLogger()

	metrics := &client.SyncMetrics{}
	ch, err := client.Dial(cfg.ServerAddr, metrics)
	if err != nil {
		return err
	}
	defer ch.Close()
	client.Log.Infof("connected to %s", cfg.ServerAddr)

	w := world.New()
	if cfg.Stars {
		seed := cfg.StarSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		n := render.SpawnStars(w, render.GenerateStars(cfg.Width, cfg.Height, rand.New(rand.NewSource(seed))))
		client.Log.Debugf("spawned %d stars (seed=%d)", n, seed)
	}
	if _, err := w.Register(world.LocalID, world.Position{X: 0, Y: 0}); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	keys := render.NewKeyboard(screen)

	loop := &client.Loop{
		Engine:              client.NewEngine(w, ch, metrics),
		Channel:             ch,
		Input:               keys,
		Sink:                render.NewScreen(screen, cfg.Width, cfg.Height),
		MaxDatagramsPerTick: cfg.MaxDatagramsPerTick,
	}

	if cfg.DebugAddr != "" {
		srv := &http.Server{Addr: cfg.DebugAddr, Handler: client.NewDebugMux(loop)}
		go func() {
			client.Log.Infof("debug endpoint on %s", cfg.DebugAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				client.Log.Errorf("debug listen: %v", err)
			}
		}()
		defer srv.Close()
	}

	// 优雅退出：Ctrl+C / Esc / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		select {
		case <-keys.Quit():
			stop()
		case <-ctx.Done():
		}
	}()

	interval := time.Second / time.Duration(cfg.TickRate)
	if err := loop.Run(ctx, interval); err != nil && err != context.Canceled {
		return err
	}
	client.Log.Infof("shutting down after %d ticks", loop.Seq())
	return nil
}

// envFileFromArgs 在 flag.Parse 之前找出 -env 的值，使 dotenv 能先于其他标志加载
func envFileFromArgs(args []string, def string) string {
	for i, a := range args {
		switch {
		case a == "-env" || a == "--env":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 5 && a[:5] == "-env=":
			return a[5:]
		case len(a) > 6 && a[:6] == "--env=":
			return a[6:]
		}
	}
	return def
}
