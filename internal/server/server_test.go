package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"
)

func testServer(handler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Config{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 2 * time.Second,
	}, logger)
}

func TestServer_ServesAndShutsDown(t *testing.T) {
	srv := testServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("cache", record("cache"))
	srv.OnShutdown("database", record("database"))

	taskStopped := make(chan struct{})
	srv.Go("warmer", func(ctx context.Context) error {
		<-ctx.Done()
		close(taskStopped)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunContext(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	<-taskStopped

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "database" || order[1] != "cache" {
		t.Errorf("expected LIFO shutdown [database cache], got %v", order)
	}
}

func TestServer_TaskFailureStopsServer(t *testing.T) {
	srv := testServer(http.NotFoundHandler())
	boom := errors.New("boom")
	srv.Go("failing", func(context.Context) error { return boom })

	done := make(chan error, 1)
	go func() { done <- srv.RunContext(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected task error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after task failure")
	}
}

func TestServer_ShutdownErrorsAreJoined(t *testing.T) {
	srv := testServer(http.NotFoundHandler())
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	srv.OnShutdown("a", func(context.Context) error { return errA })
	srv.OnShutdown("b", func(context.Context) error { return errB })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunContext(ctx) }()
	<-srv.Ready()
	cancel()

	err := <-done
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both shutdown errors, got %v", err)
	}
}
