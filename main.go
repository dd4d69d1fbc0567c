package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/postcard/internal/config"
	"github.com/dmorgan81/postcard/internal/handle"
	"github.com/dmorgan81/postcard/internal/inject"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/dmorgan81/postcard/internal/server"
	"github.com/samber/do"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Writer(cfg.LogFile), log.ParseLevel(cfg.LogLevel))
	ctx := log.NewContext(context.Background(), logger)
	injector := inject.Setup(ctx, cfg)

	if do.MustInvokeNamed[string](injector, "api_key") == "" {
		logger.Warn("POLLINATIONS_API_KEY is not configured, generation requests will fail")
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		handler := do.MustInvoke[*handle.GatewayHandler](injector)
		lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
			_ = injector.Shutdown()
		}))
		return
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := do.MustInvoke[*server.Server](injector).Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	_ = injector.Shutdown()
}
