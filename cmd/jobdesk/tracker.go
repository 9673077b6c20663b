package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobdesk/internal/model"
	"github.com/amishk599/jobdesk/internal/tracker"
)

var (
	listStatus string

	addLocation string
	addSalary   string
	addURL      string
	addStatus   string

	removeYes bool
)

var trackerCmd = &cobra.Command{
	Use:     "tracker",
	Aliases: []string{"apps"},
	Short:   "Manage tracked applications",
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTrackerList,
}

var trackerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one application in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackerShow,
}

var trackerAddCmd = &cobra.Command{
	Use:   "add <title> <company>",
	Short: "Add an application by hand",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackerAdd,
}

var trackerStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move an application to another status",
	Long:  "Statuses: Saved, Applied, Interviewing, Offer, Rejected. Any transition is allowed.",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrackerStatus,
}

var trackerNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace an application's notes",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTrackerNotes,
}

var trackerRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Delete an application",
	Args:    cobra.ExactArgs(1),
	RunE:    runTrackerRemove,
}

func init() {
	trackerListCmd.Flags().StringVar(&listStatus, "status", "", "only show applications with this status")

	trackerAddCmd.Flags().StringVar(&addLocation, "location", "", "location")
	trackerAddCmd.Flags().StringVar(&addSalary, "salary", "", "salary text, e.g. £95k")
	trackerAddCmd.Flags().StringVar(&addURL, "url", "", "listing URL")
	trackerAddCmd.Flags().StringVar(&addStatus, "status", string(model.StatusApplied), "initial status")

	trackerRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "do not ask for confirmation")

	trackerCmd.AddCommand(trackerListCmd, trackerShowCmd, trackerAddCmd, trackerStatusCmd, trackerNotesCmd, trackerRemoveCmd)
	rootCmd.AddCommand(trackerCmd)
}

func runTrackerList(cmd *cobra.Command, args []string) error {
	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()
	tr := sess.Tracker()

	apps := tr.List()
	if listStatus != "" {
		st, err := model.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		apps = tr.Filter(st)
	}

	counts := tr.Counts()
	parts := make([]string, 0, len(model.Statuses))
	for _, st := range model.Statuses {
		parts = append(parts, fmt.Sprintf("%s %d", st, counts[st]))
	}
	fmt.Println(tableHeaderStyle.Render(strings.Join(parts, " · ")))
	fmt.Println(strings.Repeat("─", 60))

	if len(apps) == 0 {
		fmt.Println("No applications tracked yet. Save listings from search or add one with `jobdesk tracker add`.")
		return nil
	}

	for _, a := range apps {
		fmt.Printf("%-14d %-13s %s\n", a.ID, a.Status, a.Title)
		detail := a.Company
		if a.Location != "" {
			detail += " · " + a.Location
		}
		if a.Salary != "" {
			detail += " · " + a.Salary
		}
		detail += " · added " + a.DateAdded + " (" + humanize.Time(time.UnixMilli(a.ID)) + ")"
		fmt.Printf("%-28s %s\n", "", dimStyle.Render(detail))
		if a.Notes != "" {
			fmt.Printf("%-28s %s\n", "", a.Notes)
		}
	}
	fmt.Printf("\nTotal: %d of %d applications\n", len(apps), len(tr.List()))
	return nil
}

func runTrackerShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	a, err := sess.Tracker().Get(id)
	if err != nil {
		return err
	}

	fmt.Println(tableHeaderStyle.Render(a.Title + " at " + a.Company))
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("%-10s %s\n", label, value)
		}
	}
	field("Status", string(a.Status))
	field("Added", a.DateAdded)
	field("Location", a.Location)
	field("Salary", a.Salary)
	field("Type", a.Type)
	field("URL", a.URL)
	field("Notes", a.Notes)
	if a.Description != "" {
		fmt.Println()
		fmt.Println(a.Description)
	}
	return nil
}

func runTrackerAdd(cmd *cobra.Command, args []string) error {
	status, err := model.ParseStatus(addStatus)
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	app, err := sess.Tracker().AddManual(tracker.ManualEntry{
		Title:    args[0],
		Company:  args[1],
		Location: addLocation,
		Salary:   addSalary,
		URL:      addURL,
		Status:   status,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added %s at %s as %s (id %d)\n", app.Title, app.Company, app.Status, app.ID)
	return nil
}

func runTrackerStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(args[1])
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	if err := sess.Tracker().UpdateStatus(id, status); err != nil {
		return err
	}
	fmt.Printf("Application %d is now %s\n", id, status)
	return nil
}

func runTrackerNotes(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()

	if err := sess.Tracker().UpdateNotes(id, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Printf("Updated notes for application %d\n", id)
	return nil
}

func runTrackerRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	sess, closeFn, err := bootstrap(setupLogger(debug))
	if err != nil {
		return err
	}
	defer closeFn()
	tr := sess.Tracker()

	app, err := tr.Get(id)
	if err != nil {
		return err
	}
	if !removeYes && !confirm(fmt.Sprintf("Delete %s at %s?", app.Title, app.Company)) {
		fmt.Println("Kept.")
		return nil
	}
	if err := tr.Remove(id); err != nil {
		return err
	}
	fmt.Printf("Deleted application %d\n", id)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid application id %q", s)
	}
	return id, nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
