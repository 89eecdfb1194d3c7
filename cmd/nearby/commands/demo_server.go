package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/internal/fakeapi"
	"github.com/spf13/cobra"
)

const defaultListenAddr = "127.0.0.1:5000"

// NewDemoServerCommand creates the demo-server command.
func NewDemoServerCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Run an in-memory nearby API",
		Long:  "Serve a seeded in-memory copy of the nearby API for trying out the client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", listen, err)
			}

			logger := newLogger(cmd.ErrOrStderr()).With("demo-server")

			return serveDemo(ctx, listener, fakeapi.New(fakeapi.WithLogger(logger.Zerolog())), func(addr string) {
				logger.Info("demo server listening", map[string]interface{}{"addr": addr})
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving the nearby API on http://%s%s\n", addr, constants.DefaultEntryPoint)
			})
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", defaultListenAddr, "address to listen on")

	return cmd
}

// serveDemo serves handler on listener until ctx is done, then shuts down
// gracefully.
func serveDemo(ctx context.Context, listener net.Listener, handler http.Handler, ready func(addr string)) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Serve(listener)
	}()

	if ready != nil {
		ready(listener.Addr().String())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("demo server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shut down demo server: %w", err)
	}

	return nil
}
