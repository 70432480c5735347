package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/services/preprocess"
	"github.com/Ramsey-B/fern/pkg/filters"
	fernmw "github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/routes/catalog"
	"github.com/Ramsey-B/fern/pkg/routes/pipeline"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real environments set vars directly
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zlog, err := newZapLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()
	sugar := zlog.Sugar()

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		args := make([]any, 0, len(msg.Fields)*2+2)
		for key, value := range msg.Fields {
			args = append(args, key, value)
		}
		if msg.Err != nil {
			args = append(args, "error", msg.Err)
		}
		switch fmt.Sprint(msg.Level) {
		case "error":
			sugar.Errorw(msg.Message, args...)
		case "warn", "warning":
			sugar.Warnw(msg.Message, args...)
		default:
			sugar.Infow(msg.Message, args...)
		}
	})

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	filters.RegisterAll()

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		sugar.Fatalw("failed to create DI container", "error", err)
	}
	service := preprocess.NewService(logger, cfg.PreviewRows)
	if err := ectoinject.RegisterInstance[*preprocess.Service](container, service); err != nil {
		sugar.Fatalw("failed to register preprocess service", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = fernmw.Error(logger)
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(fernmw.Context())
	e.Use(fernmw.Logger(logger))
	e.Use(echomw.BodyLimit(fmt.Sprintf("%d", cfg.MaxDatasetBytes)))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	e.GET("/filters", catalog.GetFilters)
	e.POST("/pipeline/validate", pipeline.ValidatePipeline)
	e.POST("/pipeline/run", pipeline.RunPipeline)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			sugar.Infow("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("failed to shut down server", "error", err)
	}
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zcfg = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
