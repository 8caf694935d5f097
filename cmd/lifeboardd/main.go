package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifeboard/lifeboard/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:8391", "listen address")
	rows := flag.Int("rows", server.DefaultRows, "initial board rows")
	columns := flag.Int("columns", server.DefaultColumns, "initial board columns")
	probability := flag.Float64("p", server.DefaultLiveProbability, "initial live probability")
	flag.Parse()

	srv, err := server.New(*rows, *columns, *probability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lifeboardd: %v\n", err)
		return 1
	}

	httpSrv := &http.Server{
		Addr:    *addr,
		Handler: srv.Router(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("lifeboardd listening on %s", *addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "lifeboardd: shutdown: %v\n", err)
			return 1
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "lifeboardd: %v\n", err)
			return 1
		}
	}
	return 0
}
