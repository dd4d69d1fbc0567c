package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmorgan81/postcard/internal/config"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/samber/do"
)

const userAgent = "Christmas-Postcard-Creator/1.0"

type PollinationsGenerator struct {
	Client  *http.Client
	BaseURL string
	Key     string
	Timeout time.Duration
}

func NewPollinationsGenerator(i *do.Injector) (Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &PollinationsGenerator{
		Client:  do.MustInvoke[*http.Client](i),
		BaseURL: cfg.UpstreamURL,
		Key:     do.MustInvokeNamed[string](i, "api_key"),
		Timeout: cfg.Timeout,
	}, nil
}

func (g *PollinationsGenerator) Generate(ctx context.Context, params Params) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("pollinations").With(
		"model", params.Model,
		"width", params.Width,
		"height", params.Height,
		"seed", params.Seed,
	)
	log.Info("generating image via pollinations")

	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint(params), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.Key)
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, g.timeoutOr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		log.Error("upstream request failed", "status", resp.StatusCode, "body", string(detail))
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.timeoutOr(ctx, err)
	}

	if looksLikeHTML(data) {
		return nil, &AuthenticationError{}
	}

	log.Info("received image via pollinations", "bytes", len(data))
	return data, nil
}

func (g *PollinationsGenerator) endpoint(params Params) string {
	query := url.Values{}
	query.Set("model", params.Model)
	query.Set("width", strconv.Itoa(params.Width))
	query.Set("height", strconv.Itoa(params.Height))
	if params.Seed != nil {
		query.Set("seed", strconv.FormatInt(*params.Seed, 10))
	}
	if params.Enhance {
		query.Set("enhance", "true")
	}
	if params.NoLogo {
		query.Set("nologo", "true")
	}

	return fmt.Sprintf("%s/api/generate/image/%s?%s",
		strings.TrimRight(g.BaseURL, "/"), escapePrompt(params.Prompt), query.Encode())
}

func (g *PollinationsGenerator) timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: g.Timeout}
	}
	return fmt.Errorf("calling pollinations: %w", err)
}

// escapePrompt encodes the prompt as a single path segment, spaces as %20.
func escapePrompt(prompt string) string {
	return strings.ReplaceAll(url.QueryEscape(prompt), "+", "%20")
}
