package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duskmoor/mathcast/internal/artifact"
	"github.com/duskmoor/mathcast/internal/codegen"
	"github.com/duskmoor/mathcast/internal/config"
	"github.com/duskmoor/mathcast/internal/gate"
	"github.com/duskmoor/mathcast/internal/generator"
	"github.com/duskmoor/mathcast/internal/mcptools"
	"github.com/duskmoor/mathcast/internal/ocr"
	"github.com/duskmoor/mathcast/internal/render"
	"github.com/duskmoor/mathcast/internal/server"
	"github.com/duskmoor/mathcast/internal/task"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	Addr      string
	MCPAddr   string
	Verbose   bool
	Version   bool
}

// version is set by the linker at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("mathcast", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding mathcast.yml and .env")
	fs.StringVar(&flags.Addr, "addr", "", "listen address (overrides config)")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "", "also serve MCP tools on this address")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.Addr != "" {
		cfg.ListenAddr = flags.Addr
	}

	logCfg := zap.NewProductionConfig()
	if flags.Verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := task.NewFileStore(cfg.TaskFile)
	if err != nil {
		return err
	}

	var videos artifact.Store
	local, err := artifact.NewLocalStore(cfg.VideoDir)
	if err != nil {
		return err
	}
	videos = local
	if cfg.S3.Endpoint != "" {
		urlExpiry := cfg.S3.URLExpiry.Std()
		if urlExpiry <= 0 {
			// Links must outlive the task record, or status reads hand
			// out dead URLs before the sweeper runs.
			urlExpiry = cfg.TaskMaxAge.Std()
		}
		s3, err := artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
			URLExpiry: urlExpiry,
		})
		if err != nil {
			return err
		}
		videos = s3
		log.Info("using s3 video store", zap.String("bucket", cfg.S3.Bucket))
	}

	gemini, err := codegen.NewGeminiGenerator(ctx, os.Getenv("GEMINI_API_KEY"), cfg.Model)
	if err != nil {
		return fmt.Errorf("init code generator: %w", err)
	}
	gen, err := codegen.NewCachedGenerator(gemini, cfg.CacheSize)
	if err != nil {
		return err
	}

	runner := render.NewManimRunner(cfg.VideoDir, log.Named("render"))
	runner.Timeout = cfg.RenderLimit.Std()
	if !runner.Available() {
		log.Warn("manim binary not found; render jobs will fail")
	}

	svc := generator.New(generator.Config{
		Store:      store,
		Generator:  gen,
		Pipeline:   gate.NewPipeline(),
		Renderer:   runner,
		Videos:     videos,
		Log:        log.Named("generator"),
		MaxWorkers: cfg.MaxWorkers,
	})

	var ocrClient ocr.Client
	if cfg.OCRBaseURL != "" {
		ocrClient = ocr.NewHTTPClient(cfg.OCRBaseURL)
	}

	srv := server.New(server.Config{
		Service:     svc,
		Store:       store,
		Videos:      videos,
		OCR:         ocrClient,
		Log:         log.Named("http"),
		RenderReady: runner.Available,
	})
	srv.Start(cfg.ListenAddr)
	log.Info("mathcast listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("version", version))

	if flags.MCPAddr != "" {
		go func() {
			animSvc := mcptools.NewAnimationService(svc, store)
			if err := mcptools.RunMCPServer(ctx, animSvc, flags.MCPAddr); err != nil {
				log.Error("mcp server stopped", zap.Error(err))
			}
		}()
		log.Info("mcp tools listening", zap.String("addr", flags.MCPAddr))
	}

	sweeper := &task.Sweeper{
		Store:    store,
		Videos:   videos,
		MaxAge:   cfg.TaskMaxAge.Std(),
		Interval: cfg.SweepEvery.Std(),
		Log:      log.Named("sweeper"),
	}
	go sweeper.Run(ctx)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warn("http shutdown", zap.Error(err))
	}
	svc.Wait()
	return nil
}
