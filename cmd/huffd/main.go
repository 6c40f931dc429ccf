package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/npillmayer/huffword/internal/huffd"
)

func main() {
	addr := flag.String("addr", "localhost:7099", "address to listen on")
	dbPath := flag.String("db", "./huffd.db", "path to the artifact store")
	cacheSize := flag.Int("cache", 64, "artifacts held in memory")
	flag.Parse()

	address := envOr("ADDRESS", *addr)

	app, err := huffd.New(huffd.Config{
		DBPath:    *dbPath,
		CacheSize: *cacheSize,
	})
	if err != nil {
		log.Fatalf("couldn't create huffd: %v", err)
	}
	defer app.Close()

	server := &http.Server{
		Addr:    address,
		Handler: app,
	}
	go func() {
		log.Printf("huffd listening on %s", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error: %v", err)
		}
	}()

	stopChannel := make(chan os.Signal, 1)
	signal.Notify(stopChannel, os.Interrupt)
	<-stopChannel

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
