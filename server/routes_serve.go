// routes_serve.go - Server-Start und Lifecycle-Management
// Enthaelt: Serve() - Hauptfunktion zum Starten des HTTP-Servers

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/7blacky7/videocompanion/app/store"
	"github.com/7blacky7/videocompanion/envconfig"
	"github.com/7blacky7/videocompanion/logutil"
	"github.com/7blacky7/videocompanion/upstream"
	"github.com/7blacky7/videocompanion/version"
)

const shutdownTimeout = 5 * time.Second

// Serve startet den HTTP-Server und blockiert bis SIGINT/SIGTERM
func Serve(ln net.Listener) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	slog.Info("server config", "env", envconfig.Values())

	var up Upstream
	if client, err := upstream.ClientFromEnvironment(); err != nil {
		slog.Warn("questions are disabled", "error", err)
	} else {
		up = client
	}

	st := &store.Store{DBPath: envconfig.DBPath()}
	defer st.Close()

	s := NewServer(ln.Addr(), up, st)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, ln)
}

// serve bedient ln bis ctx endet und faehrt dann geordnet herunter
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srvr := &http.Server{
		Handler:     s.GenerateRoutes(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger().Info(fmt.Sprintf("Listening on %s (version %s)", ln.Addr(), version.Version))
		if err := srvr.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srvr.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
