package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/session"
	"github.com/conorfennell/flashdeck/internal/web"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a study session over HTTP",
		Long: "Serve one study session as JSON:\n" +
			"  GET  /deck          current view\n" +
			"  POST /deck/flip     reveal the answer\n" +
			"  POST /deck/next     record an answer (form: correct=true|false)\n" +
			"  POST /deck/restart  start the deck again",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	addDeckFlags(cmd)
	cmd.Flags().String("addr", config.Default().Addr, "Listen address")
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	name, d, err := loadDeck(ctx, cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(session.New(name, d), db),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving deck", "deck", name, "cards", d.Size(), "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
