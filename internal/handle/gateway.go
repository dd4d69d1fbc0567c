package handle

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

var textTypes = []string{"application/json", "text/", "application/javascript"}

// GatewayHandler serves API Gateway HTTP API events through the same router
// the standalone server uses.
type GatewayHandler struct {
	router http.Handler
}

func NewGatewayHandler(i *do.Injector) (*GatewayHandler, error) {
	return &GatewayHandler{router: do.MustInvoke[http.Handler](i)}, nil
}

func (h *GatewayHandler) Handle(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("GatewayHandler").With(
		"method", event.RequestContext.HTTP.Method,
		"path", event.RawPath,
	)
	log.Info("handling lambda invocation")

	req, err := toRequest(ctx, event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	rec := &recorder{header: http.Header{}}
	h.router.ServeHTTP(rec, req)
	return rec.toResponse(), nil
}

func toRequest(ctx context.Context, event events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	target := lo.Ternary(event.RawPath != "", event.RawPath, "/")
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}

	req, err := http.NewRequestWithContext(ctx, event.RequestContext.HTTP.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	if len(event.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}
	req.Host = event.RequestContext.DomainName
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP
	return req, nil
}

type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) toResponse() events.APIGatewayV2HTTPResponse {
	headers := lo.MapValues(r.header, func(v []string, _ string) string {
		return strings.Join(v, ",")
	})

	contentType := r.header.Get("Content-Type")
	binary := !lo.SomeBy(textTypes, func(t string) bool {
		return strings.HasPrefix(contentType, t)
	})

	resp := events.APIGatewayV2HTTPResponse{
		StatusCode:      lo.Ternary(r.status != 0, r.status, http.StatusOK),
		Headers:         headers,
		IsBase64Encoded: binary,
	}
	if binary {
		resp.Body = base64.StdEncoding.EncodeToString(r.body.Bytes())
	} else {
		resp.Body = r.body.String()
	}
	return resp
}
