package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashdeck/internal/deck"
	"github.com/conorfennell/flashdeck/internal/session"
	"github.com/conorfennell/flashdeck/internal/web"
)

func init() {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study a deck in the terminal",
		Long: "Study a deck in the terminal. Press enter to reveal the answer, then y if you knew it\n" +
			"or n if you didn't. Cards you miss come back at the end of the deck.",
		Args: cobra.NoArgs,
		RunE: runStudyCmd,
	}
	addDeckFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runStudyCmd(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	name, d, err := loadDeck(cmd.Context(), cfg, db)
	if err != nil {
		return err
	}
	return study(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session.New(name, d), db)
}

// study runs the terminal loop until the user quits, input ends or ctx is
// cancelled. Input is read on its own goroutine so that cancellation does
// not wait for the next line.
func study(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session, recorder web.RunRecorder) error {
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	read := func() (string, bool) {
		select {
		case line, ok := <-lines:
			return strings.ToLower(strings.TrimSpace(line)), ok
		case <-ctx.Done():
			return "", false
		}
	}
	// done is nil after a quit or end of input.
	done := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case err := <-scanErr:
			return err
		default:
			return nil
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := sess.View()

		switch view.State {
		case deck.Question:
			fmt.Fprintf(out, "\n[%d left] %s\n(enter: flip, q: quit) ", view.Size, view.Text)
			input, ok := read()
			if !ok || input == "q" {
				return done()
			}
			sess.Flip()

		case deck.Answer:
			fmt.Fprintf(out, "=> %s\n(y: correct, n: incorrect, q: quit) ", view.Text)
			input, ok := read()
			if !ok || input == "q" {
				return done()
			}
			var finished bool
			switch input {
			case "y", "yes":
				finished = sess.Next(true)
			case "n", "no":
				finished = sess.Next(false)
			default:
				continue
			}
			if finished {
				run := sess.Run()
				if err := recorder.RecordRun(ctx, run); err != nil {
					slog.Warn("Failed to record run", "deck", run.Deck, "error", err)
				}
			}

		case deck.Exhausted:
			fmt.Fprintf(out, "\n%s\n(r: restart, anything else: quit) ", view.Summary)
			input, ok := read()
			if !ok || input != "r" {
				fmt.Fprintln(out)
				return done()
			}
			sess.Restart()
		}
	}
}
