package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/browse"
	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/session"
)

var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Search and browse listings interactively (TUI)",
	Long: "Shows the quick-search picker, then the split-pane listing view. " +
		"Listings can be filtered, sorted and saved to the tracker.",
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; log output before the alt-screen starts
	// corrupts the display.
	silentLogger := slog.New(slog.DiscardHandler)

	sess, closeFn, err := bootstrap(silentLogger)
	if err != nil {
		return err
	}
	defer closeFn()

	return runBrowseLoop(sess, strings.Join(args, " "))
}

func runBrowseLoop(sess *session.Session, query string) error {
	for {
		if query == "" {
			chosen, quit, err := browse.RunQueryPicker(browse.QuickSearches, "")
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			if quit || chosen == "" {
				return nil
			}
			query = chosen
		}

		listings, err := browse.RunLoader("Searching Adzuna for "+query+"…", func(ctx context.Context) ([]model.Listing, error) {
			return sess.Search(ctx, query)
		})
		switch {
		case errors.Is(err, browse.ErrCancelled):
			return nil
		case err != nil:
			fmt.Println(model.UserMessage(err))
			query = ""
			continue
		}

		wantQuit, err := browse.RunBrowser(query, listings, sess.Tracker())
		if err != nil {
			return fmt.Errorf("browser: %w", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to picker
		query = ""
	}
}
