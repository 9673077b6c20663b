package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/filter"
	"github.com/amishk599/jobdesk/internal/model"
)

var (
	searchWorkType string
	searchSort     string
	searchSave     []int
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	savedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search live listings and print them",
	Long: "Runs one Adzuna search (salary-floor tier first, then without the floor) and prints the results. " +
		"Known place names such as London are used as the location; the other words are the keywords.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchWorkType, "work-type", filter.WorkTypeAll, "filter by work type: All, Remote, Hybrid, On-site")
	searchCmd.Flags().StringVar(&searchSort, "sort", filter.SortRelevance, "sort order: relevance, salary_desc, salary_asc")
	searchCmd.Flags().IntSliceVar(&searchSave, "save", nil, "save the listings with these numbers to the tracker")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	workType, err := filter.ParseWorkType(searchWorkType)
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(logger)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")
	listings, err := sess.Search(ctx, query)
	if err != nil {
		logger.Debug("search failed", "query", query, "error", err)
		return err
	}

	visible, err := filter.Sort(filter.Apply(filter.NewWorkTypeFilter(workType), listings), searchSort)
	if err != nil {
		return err
	}

	tr := sess.Tracker()
	for _, n := range searchSave {
		l, ok := listingByID(listings, n)
		if !ok {
			return fmt.Errorf("no listing numbered %d in these results", n)
		}
		app, added, err := tr.AddFromListing(l)
		if err != nil {
			return err
		}
		if added {
			fmt.Printf("Saved #%d %s at %s (id %d)\n", n, app.Title, app.Company, app.ID)
		} else {
			fmt.Printf("Already tracked: %s at %s (id %d)\n", app.Title, app.Company, app.ID)
		}
	}
	if len(searchSave) > 0 {
		fmt.Println()
	}

	printListings(os.Stdout, query, visible, len(listings), tr.IsSaved)
	return nil
}

func listingByID(listings []model.Listing, id int) (model.Listing, bool) {
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return model.Listing{}, false
}

func printListings(w io.Writer, query string, listings []model.Listing, total int, isSaved func(model.Listing) bool) {
	fmt.Fprintln(w, tableHeaderStyle.Render(fmt.Sprintf("%d of %d live results for %q", len(listings), total, query)))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings match this work type.")
		return
	}

	for _, l := range listings {
		mark := "  "
		if isSaved(l) {
			mark = savedStyle.Render("★ ")
		}
		fmt.Fprintf(w, "%s#%-3d %s\n", mark, l.ID, l.Title)
		fmt.Fprintf(w, "      %s\n", dimStyle.Render(fmt.Sprintf("%s · %s · %s · %s · %s", l.Company, l.Location, l.Salary, l.Type, filter.WorkType(l))))
		if l.Summary != "" {
			fmt.Fprintf(w, "      %s\n", l.Summary)
		}
		if l.URL != "" {
			fmt.Fprintf(w, "      %s\n", dimStyle.Render(l.URL))
		}
		fmt.Fprintln(w)
	}
}
