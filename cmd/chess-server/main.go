// Command chess-server serves games over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/server"
	"github.com/hailam/minichess/internal/storage"
)

var (
	addr    = flag.String("addr", "", "listen address (env CHESS_ADDR, default :3000)")
	depth   = flag.Int("depth", 0, "default engine depth in half-moves (env CHESS_DEPTH)")
	dbDir   = flag.String("db", "", "game archive directory (env CHESS_DB)")
	origins = flag.String("origins", "*", "comma separated CORS origins")
)

func envOr(value, key, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	listen := envOr(*addr, "CHESS_ADDR", ":3000")

	d := *depth
	if d == 0 {
		if env := os.Getenv("CHESS_DEPTH"); env != "" {
			v, err := strconv.Atoi(env)
			if err != nil {
				log.Fatalf("invalid CHESS_DEPTH %q: %v", env, err)
			}
			d = v
		}
	}

	var (
		store *storage.Storage
		err   error
	)
	if dir := envOr(*dbDir, "CHESS_DB", ""); dir != "" {
		store, err = storage.Open(dir)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Fatalf("open game archive: %v", err)
	}
	defer store.Close()

	srv := server.New(game.NewManager(store), server.Config{
		AllowOrigins: *origins,
		Depth:        d,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Listen(listen); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
