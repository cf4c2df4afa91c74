package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/web"

	"github.com/spf13/cobra"
)

// snapshotLoader serialises access to ctl: the first call hands out the roster the command
// already loaded, later calls reload it.
func snapshotLoader(ctl *session.Controller) web.LoadFunc {
	var mu sync.Mutex
	loaded := false
	return func(ctx context.Context) (web.Snapshot, error) {
		mu.Lock()
		defer mu.Unlock()
		if loaded {
			if rep := ctl.Reload(ctx); rep.Failed() {
				return web.Snapshot{}, rep.Err
			}
		}
		loaded = true
		snap := web.Snapshot{Roster: ctl.Roster(), Source: ctl.Source().String()}
		if ctl.Connected() {
			snap.Endpoint = ctl.Endpoint()
		}
		return snap, nil
	}
}

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster export over HTTP",
		Long: strings.TrimSpace(`
Serve the roster over a small local HTTP server:

  GET  /export.csv        the roster in the school spreadsheet layout (download)
  GET  /roster.json       every record as JSON
  GET  /slip/<ic>.pdf     one record as a printable slip (also .md)
  POST /reload            re-read the spreadsheet
  GET  /healthz
`),
		Example: strings.TrimSpace(`
maklumat serve --addr 127.0.0.1:8088
curl -OJ http://127.0.0.1:8088/export.csv
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.cfg.Addr
			}

			ctl, _, err := app.startController(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := web.NewServer(ctx, web.ServerConfig{
				Addr:   listenAddr,
				Load:   snapshotLoader(ctl),
				Logger: app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/export.csv"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"source":    ctl.Source().String(),
					"records":   len(ctl.Roster()),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"curl -OJ " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Maklumat export running at %s\n", url)

			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = hs.Shutdown(shutdownCtx)
			}()
			if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default $MAKLUMAT_ADDR or 127.0.0.1:8088)")
	return cmd
}
