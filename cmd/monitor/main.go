package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-monitor/internal/config"
	"shop-monitor/internal/images"
	"shop-monitor/internal/notify"
	"shop-monitor/internal/runner"
	"shop-monitor/internal/scrape"
	"shop-monitor/internal/server"
	"shop-monitor/internal/snapshot"
)

func main() {
	// Configuration errors are the only thing allowed to kill the process.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var reporter runner.Reporter = runner.NopReporter{}
	if cfg.SentryDSN != "" {
		reporter, err = runner.NewSentryReporter(cfg.SentryDSN)
		if err != nil {
			log.Fatalf("sentry init: %v", err)
		}
	}

	// Wire the pipeline.
	client := scrape.NewClient(cfg.ShopRoot, cfg.ShopCookie)
	catalog := scrape.NewCatalog(client)
	store := snapshot.NewStore(cfg.SnapshotPath)
	pipeline := images.NewPipeline(images.NewCDNClient(), reporter.Capture)
	poster := notify.NewSlackPoster(cfg.SlackToken, cfg.SlackChannelID)
	run := runner.New(store, catalog, pipeline, poster, reporter, cfg.BlocksLogPath)

	httpServer := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     server.New(store, run, cfg.MasterKey),
		IdleTimeout: 22 * time.Second,
	}

	go func() {
		log.Printf("Monitor listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	// Block here until a signal is received
	<-stopChan
	log.Println("Shutting down")
	httpServer.Close()
	reporter.Flush()
}
