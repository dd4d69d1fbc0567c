package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmorgan81/postcard/internal/config"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr string
	http *http.Server
}

func NewServer(i *do.Injector) (*Server, error) {
	return New(do.MustInvoke[*config.Config](i).Addr(), do.MustInvoke[http.Handler](i)), nil
}

func New(addr string, handler http.Handler) *Server {
	return &Server{
		addr: addr,
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("server").With("addr", ln.Addr().String())
	base := context.WithoutCancel(ctx)
	s.http.BaseContext = func(net.Listener) context.Context { return base }

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("listening", "health", "/health", "generate", "POST /api/generate")
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
