package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lifeboard/lifeboard/internal/config"
	"github.com/lifeboard/lifeboard/internal/control"
	"github.com/lifeboard/lifeboard/internal/lifeapi"
	"github.com/lifeboard/lifeboard/internal/ui"
)

// Options configure the lifeboard client.
type Options struct {
	ConfigPath string
	Endpoint   string // overrides the config file when set
}

// Run boots the lifeboard TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}

	client, err := lifeapi.NewClient(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	ctl := control.New(control.Options{
		Service:        client,
		Context:        ctx,
		RequestTimeout: time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
		DebounceWindow: time.Duration(cfg.DebounceMS) * time.Millisecond,
		ErrorTTL:       time.Duration(cfg.ErrorTTLMS) * time.Millisecond,
		RefreshMS:      cfg.RefreshMS,
	})
	defer ctl.Close()

	// A failed initial fetch is recoverable: the UI starts anyway with the
	// error surfaced, and every operation can be retried against the daemon.
	if err := ctl.Initialize(ctx); err != nil {
		log.Printf("initial board fetch failed: %v", err)
	}

	return ui.Run(ui.Options{
		Controller: ctl,
		Context:    ctx,
	})
}
