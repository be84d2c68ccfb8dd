package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/subhub/internal/config"
	"github.com/any-hub/subhub/internal/library"
	"github.com/any-hub/subhub/internal/logging"
	"github.com/any-hub/subhub/internal/responder"
	"github.com/any-hub/subhub/internal/server"
	"github.com/any-hub/subhub/internal/server/routes"
	"github.com/any-hub/subhub/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	rootDir     string
	listenPort  int
	envFile     string
	checkOnly   bool
	showVersion bool
}

const (
	configEnvVar      = "SUBHUB_CONFIG"
	defaultConfigFile = "config.toml"
	defaultEnvFile    = ".env"
)

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, opts)
	stop()
	os.Exit(code)
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
// ctx 取消后服务进入优雅关闭。
func run(ctx context.Context, opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	if err := config.LoadEnvFile(opts.envFile); err != nil {
		fmt.Fprintf(stdErr, "加载 env 文件失败: %v\n", err)
		return 1
	}

	cfg, err := config.LoadWithOverrides(opts.configPath, config.Overrides{
		RootDir:    opts.rootDir,
		ListenPort: opts.listenPort,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["root_dir"] = cfg.RootDir
		fields["listen_addr"] = cfg.ListenAddr()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动顺序为“配置 → 字幕目录 → Fiber server”，目录不可用时直接失败，
	// 避免进程看似正常却对所有请求返回 404。
	store, err := library.NewStore(cfg.RootDir)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化字幕目录失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["root_dir"] = store.Root()
	fields["listen_addr"] = cfg.ListenAddr()
	fields["allow_origin"] = cfg.AllowOrigin
	fields["diagnostics"] = cfg.EnableDiagnostics
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(ctx, cfg, store, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("subhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		rootFlag   string
		portFlag   int
		envFile    string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 SUBHUB_CONFIG 覆盖）")
	fs.StringVar(&rootFlag, "root", "", "字幕根目录，覆盖配置中的 RootDir")
	fs.IntVar(&portFlag, "port", 0, "监听端口，覆盖配置中的 ListenPort")
	fs.StringVar(&envFile, "env-file", defaultEnvFile, "启动前加载的 .env 文件")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	if fs.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("解析参数失败: 未知参数 %v", fs.Args())
	}
	if portFlag < 0 || portFlag > 65535 {
		return cliOptions{}, fmt.Errorf("解析参数失败: 端口 %d 超出范围", portFlag)
	}

	path := os.Getenv(configEnvVar)
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		if info, err := os.Stat(defaultConfigFile); err == nil && !info.IsDir() {
			path = defaultConfigFile
		}
	}

	return cliOptions{
		configPath:  path,
		rootDir:     rootFlag,
		listenPort:  portFlag,
		envFile:     envFile,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// buildApp 组装 Fiber 应用：文件响应器负责 catch-all 路由，诊断接口按配置挂载。
func buildApp(cfg *config.Config, store library.Store, logger *logrus.Logger) (*fiber.App, error) {
	app, err := server.NewApp(server.AppOptions{
		Logger:      logger,
		Responder:   responder.NewHandler(store, logger),
		AllowOrigin: cfg.AllowOrigin,
		Diagnostics: cfg.EnableDiagnostics,
	})
	if err != nil {
		return nil, err
	}
	if cfg.EnableDiagnostics {
		routes.RegisterDiagnostics(app, routes.DiagnosticsOptions{
			Store:       store,
			AllowOrigin: cfg.AllowOrigin,
			Logger:      logger,
		})
	}
	return app, nil
}

func startHTTPServer(ctx context.Context, cfg *config.Config, store library.Store, logger *logrus.Logger) error {
	app, err := buildApp(cfg, store, logger)
	if err != nil {
		return err
	}

	addr := cfg.ListenAddr()
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"addr":   addr,
	}).Info("Fiber 服务启动")

	err = app.Listen(addr, fiber.ListenConfig{
		GracefulContext:       ctx,
		ShutdownTimeout:       cfg.ShutdownTimeout.DurationValue(),
		DisableStartupMessage: true,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.WithFields(logrus.Fields{
		"action": "shutdown",
		"addr":   addr,
	}).Info("Fiber 服务已停止")
	return nil
}
