package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/staycheck/internal/logging"
	"github.com/networkteam/staycheck/internal/testsite"
)

type demoServer struct {
	URL string
	srv *http.Server
}

// startDemo serves the local site on addr in the background.
func startDemo(addr string, opts testsite.Options) (*demoServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           testsite.NewHandler(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			opts.Logger.Error().Err(err).Msg("Serving local site failed")
		}
	}()
	return &demoServer{URL: "http://" + ln.Addr().String(), srv: srv}, nil
}

func (d *demoServer) Shutdown(ctx context.Context) error {
	return d.srv.Shutdown(ctx)
}

func (d *demoServer) Close() error {
	return d.srv.Close()
}

func newDemoCommand(o *options) *cobra.Command {
	var (
		addr  string
		throw bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve a local replica of the Shady Meadows B&B site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}

			demo, err := startDemo(addr, testsite.Options{
				ThrowOnReservation: throw,
				Logger:             logger,
			})
			if err != nil {
				return err
			}
			logger.Info().Str("url", demo.URL).Msg("Serving local site")
			fmt.Fprintln(cmd.OutOrStdout(), demo.URL)

			<-cmd.Context().Done()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return demo.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().BoolVar(&throw, "app-errors", false, "throw uncaught errors on reservation pages")
	return cmd
}
