package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/portindex/pkg/api"
	"github.com/matzehuels/portindex/pkg/store"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command for the read-only catalog API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		database string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built catalog over HTTP",
		Long: `Serve the catalog from the SQLite database written by build.

Routes:
  GET /healthz
  GET /packages[?q=substring]
  GET /packages/{name}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.DatabasePath()
			if cmd.Flags().Changed("database") {
				path = database
			}
			if _, err := os.Stat(path); err != nil {
				printNextStep("Build the catalog first", appName+" build")
				return err
			}

			db, err := store.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer db.Close()

			return c.serve(cmd.Context(), addr, api.NewRouter(db, c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&database, "database", "", "SQLite file (default <output>/packages.db)")

	return cmd
}

// serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func (c *CLI) serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printInfo("Listening on %s", StyleLink.Render("http://"+addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}
