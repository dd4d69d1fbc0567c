package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/postcard/internal/config"
	"github.com/dmorgan81/postcard/internal/handle"
	"github.com/dmorgan81/postcard/internal/handler"
	"github.com/dmorgan81/postcard/internal/image"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/dmorgan81/postcard/internal/page"
	"github.com/dmorgan81/postcard/internal/param"
	"github.com/dmorgan81/postcard/internal/server"
	"github.com/samber/do"
)

func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)
	do.ProvideValue[*http.Client](injector, &http.Client{})

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)

	// The key comes from the environment, or from Parameter Store when only
	// its path is given. An empty key is allowed here; the handler reports it.
	do.ProvideNamed[string](injector, "api_key", func(i *do.Injector) (string, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.APIKey != "" || cfg.APIKeyParam == "" {
			return cfg.APIKey, nil
		}
		key, err := do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.APIKeyParam)
		if err != nil {
			logger.Error("could not fetch api key", "error", err)
			return "", nil
		}
		return key, nil
	})

	do.Provide[image.Generator](injector, image.NewPollinationsGenerator)
	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[*handler.Handler](injector, handler.NewHandler)
	do.Provide[http.Handler](injector, handler.NewRouter)
	do.Provide[*server.Server](injector, server.NewServer)
	do.Provide[*handle.GatewayHandler](injector, handle.NewGatewayHandler)

	return injector
}
