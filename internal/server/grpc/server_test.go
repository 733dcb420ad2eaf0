package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func startServer(t *testing.T, ping Pinger, interval time.Duration) (healthpb.HealthClient, context.CancelFunc, chan error) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewHealthServer("", logging.Nop{}, ping, interval)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		cancel()
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
	})
	return healthpb.NewHealthClient(conn), cancel, done
}

func checkStatus(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestHealth_Serving(t *testing.T) {
	c, _, _ := startServer(t, func(context.Context) error { return nil }, 0)

	if got := checkStatus(t, c, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("overall status: %v", got)
	}
	if got := checkStatus(t, c, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("service status: %v", got)
	}
}

func TestHealth_UnknownService(t *testing.T) {
	c, _, _ := startServer(t, nil, 0)

	_, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestHealth_PingFailureFlipsStatus(t *testing.T) {
	var failing atomic.Bool
	ping := func(context.Context) error {
		if failing.Load() {
			return errors.New("db down")
		}
		return nil
	}
	c, _, _ := startServer(t, ping, 20*time.Millisecond)

	if got := checkStatus(t, c, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("initial status: %v", got)
	}

	failing.Store(true)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if checkStatus(t, c, "") == healthpb.HealthCheckResponse_NOT_SERVING {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("status did not switch to NOT_SERVING")
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	_, cancel, done := startServer(t, nil, 0)

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := NewHealthServer("256.0.0.1:bad", logging.Nop{}, nil, 0)
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
