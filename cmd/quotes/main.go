package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/shengyanli1982/gs"
	"github.com/shengyanli1982/law"
	"github.com/shengyanli1982/orbit/utils/log"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/server"
)

// Version 通过 ldflags 在编译时设置
var Version = constants.DefaultVersion

const banner = `
 ██████╗ ██╗   ██╗ ██████╗ ████████╗███████╗███████╗
██╔═══██╗██║   ██║██╔═══██╗╚══██╔══╝██╔════╝██╔════╝
██║   ██║██║   ██║██║   ██║   ██║   █████╗  ███████╗
██║▄▄ ██║██║   ██║██║   ██║   ██║   ██╔══╝  ╚════██║
╚██████╔╝╚██████╔╝╚██████╔╝   ██║   ███████╗███████║
 ╚══▀▀═╝  ╚═════╝  ╚═════╝    ╚═╝   ╚══════╝╚══════╝
	`

// options 命令行参数
type options struct {
	configPath string
	release    bool
	json       bool
}

// releaseMode 命令行开启或 GIN_MODE=release 时均视为发布模式
func (o *options) releaseMode() bool {
	return o.release || gin.Mode() == gin.ReleaseMode
}

// app 持有进程生命周期内的全部组件
type app struct {
	opts   *options
	logger *logr.Logger
	writer *law.WriteAsyncer // 仅发布模式下存在
	config *config.Manager
	server *server.Server
}

// newLogger 发布模式经 law 异步写出，可选 zap JSON 编码；开发模式同步写标准输出
func newLogger(opts *options, out io.Writer) (*logr.Logger, *law.WriteAsyncer) {
	if !opts.releaseMode() {
		return log.NewLogrLogger(out).GetLogrLogger(), nil
	}

	writer := law.NewWriteAsyncer(out, law.DefaultConfig())
	if opts.json {
		return log.NewZapLogger(zapcore.AddSync(writer)).GetLogrLogger(), writer
	}
	return log.NewLogrLogger(writer).GetLogrLogger(), writer
}

func newApp(opts *options) (*app, error) {
	a := &app{opts: opts}
	a.logger, a.writer = newLogger(opts, os.Stdout)

	manager, err := config.NewManager()
	if err != nil {
		return a, fmt.Errorf("failed to create configuration manager: %w", err)
	}
	if err := manager.LoadFromFile(opts.configPath); err != nil {
		return a, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = manager
	a.logger.Info("Configuration loaded successfully", "path", manager.GetConfigPath())

	if a.server, err = server.NewServer(!opts.release, a.logger, manager.GetConfig()); err != nil {
		return a, fmt.Errorf("failed to create servers: %w", err)
	}
	return a, nil
}

// wait 阻塞到收到终止信号，服务器先于日志写入器停止
func (a *app) wait() {
	servers := gs.NewTerminateSignal()
	servers.RegisterCancelHandles(a.server.Stop)

	logs := gs.NewTerminateSignal()
	if a.writer != nil {
		logs.RegisterCancelHandles(a.writer.Stop)
	}

	gs.WaitForSync(servers, logs)
}

func run(opts *options) error {
	a, err := newApp(opts)
	if err != nil {
		a.logger.Error(err, "Failed to initialize quotes backend")
		if a.writer != nil {
			a.writer.Stop()
		}
		return err
	}

	fmt.Println(banner)

	a.server.Start()
	a.logger.Info("Quotes backend started successfully",
		"api", a.server.APIServer().GetEndpoint(),
		"admin", a.server.AdminServer().GetEndpoint())

	a.wait()

	a.logger.Info("Quotes backend stopped")
	return nil
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "quotes",
		Version: Version,
		Short:   "Quotes backend with per-client fixed-window rate limiting",
		Long: `Quotes is the backend API of the quotes application.

Core Features:
- Quotes CRUD with like/unlike counters, tag and author listings
- Per-client fixed-window rate limiting with like, general and strict presets
- Optional token-bucket throttle over the whole API
- Admin endpoints for metrics and rate limit inspection
- Graceful shutdown support
- JSON/Plain log output support

Author: shengyanli1982`,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, constants.FlagConfig, constants.FlagConfigShort, constants.DefaultConfigPath, "Path to configuration file")
	flags.BoolVarP(&opts.json, constants.FlagJSON, constants.FlagJSONShort, false, "Enable JSON format logging output (only effective in release mode)")
	flags.BoolVarP(&opts.release, constants.FlagRelease, constants.FlagReleaseShort, false, "Enable release mode for performance optimizations and async logging")

	return cmd
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute command: %v\n", err)
		os.Exit(constants.ExitFailure)
	}
}
