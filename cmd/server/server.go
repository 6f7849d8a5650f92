package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/irpc"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/evaluator"
	"github.com/marben/fractalfield/remote"
)

// main is the entry point for the fractal server.
// It renders PNG frames on request, either on local CPUs or on connected workers.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	cfg := fractal.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	addr := flag.String("addr", ":8080", "http listen address")
	useRemote := flag.Bool("remote", false, "render chunks on workers connected to /ws or the tcp address")
	tcpAddr := flag.String("tcp", ":8081", "tcp listen address for workers, empty to disable")
	maxRemote := flag.Int("max-remote", 256, "maximum number of connected workers")
	timeout := flag.Duration("timeout", 30*time.Second, "deadline of a single render")
	flag.Parse()

	opts := []evaluator.Option{evaluator.WithWorkers(cfg.Workers)}
	var pool *remote.Pool
	if *useRemote {
		// Each connected worker renders one chunk at a time
		pool = remote.NewPool(*maxRemote)
		defer pool.Close()
		opts = append(opts, evaluator.WithRenderer(pool))

		if *tcpAddr != "" {
			tcpListener, err := net.Listen("tcp", *tcpAddr)
			if err != nil {
				return fmt.Errorf("net.Listen: %w", err)
			}
			log.Printf("tcp listening on %s", *tcpAddr)
			go func() {
				if err := pool.Serve(tcpListener); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
					log.Printf("pool.Serve tcp: %v", err)
				}
			}()
		}
	}

	ev, err := evaluator.New(opts...)
	if err != nil {
		return fmt.Errorf("evaluator.New: %w", err)
	}
	defer ev.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs := newRenderService(ev, cfg, *timeout)
	httpServer := webServer(*addr, rs, pool)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("httpServer.Shutdown: %v", err)
		}
	}()

	log.Printf("fractal server: %d evaluator workers, remote=%t", ev.Workers(), *useRemote)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}
