// Package health serves the standard gRPC health protocol and keeps its
// status in line with the database.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name clients pass in HealthCheckRequest.
const Service = "ecommerce.api"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	hs       *health.Server
	db       Pinger
	interval time.Duration
}

func New(db Pinger, interval time.Duration) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{hs: hs, db: db, interval: interval}
}

// Health exposes the underlying health service, for in-process checks.
func (s *Server) Health() healthpb.HealthServer { return s.hs }

// Refresh pings the database once and updates the serving status.
func (s *Server) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	err := s.db.Ping(ctx)
	if err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.hs.SetServingStatus("", st)
	s.hs.SetServingStatus(Service, st)
	return err
}

// Watch refreshes every interval until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	healthy := true
	for {
		err := s.Refresh(ctx)
		switch {
		case err != nil && healthy:
			slog.WarnContext(ctx, "database unhealthy", "error", err)
		case err == nil && !healthy:
			slog.InfoContext(ctx, "database healthy again")
		}
		healthy = err == nil

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Serve listens on addr until ctx is done, then stops gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	g := grpc.NewServer()
	healthpb.RegisterHealthServer(g, s.hs)

	go func() {
		<-ctx.Done()
		s.hs.Shutdown()
		g.GracefulStop()
	}()
	slog.Info("grpc health listening", "addr", addr)
	if err := g.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
