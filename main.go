package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LocalSketch/internal/config"
	sketchnet "LocalSketch/internal/net"
	"LocalSketch/internal/state"
	"LocalSketch/internal/ui"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	flag.BoolVar(&cfg.Serve, "serve", cfg.Serve, "serve the drawing page to browsers instead of opening a window")
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address the page is served on")
	flag.BoolVar(&cfg.Advertise, "advertise", cfg.Advertise, "announce the page over mDNS")
	discover := flag.Bool("discover", false, "list sketch servers on the local network and exit")
	flag.Parse()

	switch {
	case *discover:
		runDiscover()
	case cfg.Serve:
		if err := runServer(cfg); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	default:
		log.Println("Starting desktop board")
		ui.RunApp(cfg)
	}
}

func runServer(cfg config.Config) error {
	log.Println("Starting as SERVER")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newBoard := func() *state.Board {
		b := state.NewBoard(cfg.Tools)
		b.SetViewportScale(cfg.ViewportScale)
		b.SetMaxSurfaceSide(cfg.MaxSurfaceSide)
		return b
	}
	transport := sketchnet.NewTransport(sketchnet.NewPeerManager(), newBoard, cfg.FrameInterval)
	server := sketchnet.NewHTTPServer(cfg.ListenAddr, transport)
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	port := server.Port()
	log.Printf("Share this link: %s", sketchnet.ShareURL(port))

	if cfg.Advertise {
		mdnsServer, err := sketchnet.Advertise(port)
		if err != nil {
			// The page still works by URL.
			log.Printf("[MDNS] %v", err)
		} else {
			defer mdnsServer.Shutdown()
		}
	}

	<-ctx.Done()
	log.Println("Shutting down")
	return nil
}

func runDiscover() {
	found, err := sketchnet.Browse(time.Second)
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if len(found) == 0 {
		fmt.Println("No sketch servers found")
		return
	}
	for _, addr := range found {
		fmt.Printf("http://%s/\n", addr)
	}
}
