package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/dynamo"
	"github.com/phanxgames/dynamo/wsbridge"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	var listen string
	var initial string
	var enable []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine in real time and stream its writes over WebSocket",
		Long: `Runs the engine on the wall clock at the configured tick rate. Clients
connect to /ws, receive a frame of attribute writes after every tick that
changed something, and may send commands such as
{"op": "setState", "name": "open"} back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, listen, initial, enable)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&listen, "listen", "", "listen address, overrides config")
	flags.StringVar(&initial, "state", "", "state to set at startup")
	flags.StringSliceVar(&enable, "enable", nil, "animations to enable at startup")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, listen, initial string, enable []string) error {
	var hub *wsbridge.Hub
	p, err := openProject(cmd, func(s *dynamo.Scene) dynamo.Graph {
		hub = wsbridge.NewHub(s, wsbridge.Options{})
		return hub
	})
	if err != nil {
		return err
	}
	if listen == "" {
		listen = p.cfg.Listen
	}
	hub.SetLogger(p.logger)
	return serve(ctx, p, hub, listen, initial, enable, nil)
}

// serve runs the HTTP server and the tick loop until ctx ends. ready, when
// non-nil, receives the bound address once the listener is open.
func serve(ctx context.Context, p *project, hub *wsbridge.Hub, listen, initial string, enable []string, ready chan<- string) error {
	hub.SetInjector(p.eng)
	p.eng.SetEventSink(hub)

	if initial != "" {
		if err := p.eng.SetState(initial); err != nil {
			return err
		}
	}
	for _, id := range enable {
		if err := p.eng.EnableAnimation(id); err != nil {
			return err
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	p.logger.Info("serving", "addr", ln.Addr().String(), "tps", p.cfg.TPS)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return tickLoop(ctx, p, hub)
	})
	eg.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func tickLoop(ctx context.Context, p *project, hub *wsbridge.Hub) error {
	ticker := time.NewTicker(time.Second / time.Duration(p.cfg.TPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.eng.Tick(); err != nil {
				p.logger.Warn("tick failed", "err", err)
			}
			hub.Flush()
		}
	}
}
