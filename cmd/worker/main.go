// worker connects to the fractal server and renders chunks for it on this machine's CPU.
// It reconnects after a lost connection until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/remote"
)

func main() {
	log.Printf("Starting chunk worker...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	server := flag.String("server", "ws://localhost:8080/ws", "fractal server: ws:// url of its /ws endpoint or tcp host:port")
	retry := flag.Duration("retry", time.Second, "delay before reconnecting")
	verbose := flag.Bool("v", false, "log every rendered chunk")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := fractal.LocalRenderer{}
	if *verbose {
		renderer.OnChunkRender = func(c fractal.Chunk) { log.Printf("Rendering chunk: %s", c) }
	}

	for {
		log.Printf("Connecting to fractal server at %s...", *server)
		conn, err := remote.Dial(ctx, *server)
		if err == nil {
			log.Printf("Connected, serving chunks")
			err = remote.Serve(ctx, conn, renderer)
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Printf("worker: %v", err)
		} else {
			log.Printf("server closed the connection")
		}

		select {
		case <-time.After(*retry):
		case <-ctx.Done():
			return nil
		}
	}
}
