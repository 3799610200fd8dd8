package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/stepnav/pkg/http/router"
	"github.com/lintang-b-s/stepnav/pkg/http/router/controllers"
	"github.com/lintang-b-s/stepnav/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. start the API in the background, it stops when ctx is cancelled.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,
	routingService controllers.RoutingService,
) (*Server, error) {
	config := util.LoadServerConfig()

	server := http_router.NewAPI(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, routingService)
	})
	s.g = g

	return s, nil
}

// Wait. block until the API stopped.
func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown. block until SIGINT or SIGTERM.
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
